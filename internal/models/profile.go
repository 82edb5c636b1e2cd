package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProfileName is shown until a user picks a display name.
const DefaultProfileName = "Eco Warrior"

// UserProfile holds a user's cumulative Eco Points.
// Stored in the profiles collection keyed by the user id.
type UserProfile struct {
	UserID string `bson:"_id" json:"user_id"`
	Points int64  `bson:"points" json:"points"`
	Name   string `bson:"name" json:"name"`
}

// DefaultProfile is the profile reported for a user with no stored document.
func DefaultProfile(userID string) UserProfile {
	return UserProfile{UserID: userID, Points: 0, Name: DefaultProfileName}
}

// LeaderboardEntry mirrors a user's points in the public leaderboard.
type LeaderboardEntry struct {
	ID     string `bson:"_id" json:"id"`
	UserID string `bson:"user_id" json:"user_id"`
	Points int64  `bson:"points" json:"points"`
}

// PointLog is an append-only audit record of a single award.
type PointLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Points    int64              `bson:"points" json:"points"` // signed delta
	Reason    string             `bson:"reason" json:"reason"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// ProfileResponse is the profile as returned by the API.
type ProfileResponse struct {
	UserProfile
	PointsToNextReward int64 `json:"points_to_next_reward"`
}
