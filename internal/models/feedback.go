package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// FeedbackTypeRoute tags every feedback record submitted from the app.
	FeedbackTypeRoute = "RouteFeedback"
	// GeneralRouteID is used when feedback is not about a specific route.
	GeneralRouteID = "general"
)

// Feedback is a public rating or complaint about a route.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      string             `bson:"type" json:"type"`
	RouteID   string             `bson:"route_id" json:"route_id"`
	Rating    int                `bson:"rating" json:"rating"` // 1-5, 0 when unset
	Complaint string             `bson:"complaint" json:"complaint"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// FeedbackRequest is the body of a feedback submission.
type FeedbackRequest struct {
	RouteID   string `json:"route_id"`
	Rating    int    `json:"rating"`
	Complaint string `json:"complaint"`
}
