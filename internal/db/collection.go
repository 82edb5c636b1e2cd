package db

import (
	"context"
	"errors"

	"github.com/ukydev/eco-routes/internal/models"
)

// Collection names inside the namespace database.
const (
	ProfilesCollection    = "profiles"
	LeaderboardCollection = "leaderboard"
	PointLogsCollection   = "point_logs"
	GarageCollection      = "garage"
	FeedbackCollection    = "feedback"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ProfileStore defines the interface for profile and points operations.
type ProfileStore interface {
	FindProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	CreateProfileIfMissing(ctx context.Context, profile models.UserProfile) error
	// IncrementPoints adds delta to the user's profile and leaderboard entry
	// as one atomic unit, creating either document if absent.
	IncrementPoints(ctx context.Context, userID string, delta int64) error
}

// LeaderboardStore defines the interface for reading the public leaderboard.
type LeaderboardStore interface {
	FindLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

// PointLogStore defines the interface for the per-user award audit log.
type PointLogStore interface {
	InsertPointLog(ctx context.Context, entry models.PointLog) error
	FindPointLogs(ctx context.Context, userID string) ([]models.PointLog, error)
}

// GarageStore defines the interface for garage vehicle operations.
type GarageStore interface {
	InsertVehicle(ctx context.Context, vehicle models.GarageVehicle) (*models.GarageVehicle, error)
	FindVehicles(ctx context.Context, userID string) ([]models.GarageVehicle, error)
}

// FeedbackStore defines the interface for public feedback records.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, feedback models.Feedback) error
}

// Store is everything the rewards ledger needs from persistence.
type Store interface {
	ProfileStore
	LeaderboardStore
	PointLogStore
	GarageStore
	FeedbackStore
	Ping(ctx context.Context) error
}
