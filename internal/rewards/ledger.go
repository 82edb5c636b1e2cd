// Package rewards tracks Eco Points, the public leaderboard, garages and feedback.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/db"
	"github.com/ukydev/eco-routes/internal/live"
	"github.com/ukydev/eco-routes/internal/models"
)

const (
	// LeaderboardSize is the number of entries shown on the leaderboard.
	LeaderboardSize = 10

	// FeedbackPoints are awarded for every submitted feedback.
	FeedbackPoints int64 = 10
	// FeedbackReason is the point log reason for feedback awards.
	FeedbackReason = "Submitting feedback"

	// StartRouteMinPoints is the value a route must exceed to earn points when started.
	StartRouteMinPoints int64 = 10
)

// Ledger awards points and serves live views of profiles, garages and the
// leaderboard. Write operations follow a log-and-swallow policy: failures
// are recorded and never returned to the caller.
type Ledger struct {
	store  db.Store
	hub    *live.Hub
	logger log.FieldLogger
	now    func() time.Time
}

// NewLedger creates a ledger over store. Changes are announced on hub.
func NewLedger(store db.Store, hub *live.Hub, logger log.FieldLogger) *Ledger {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if hub == nil {
		hub = live.NewHub()
	}
	return &Ledger{
		store:  store,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

// Award adds delta points to the user's profile and leaderboard entry and
// appends a point log entry. Nothing happens for an empty user id or a zero
// delta; negative deltas deduct points.
//
// The profile and leaderboard increments are one atomic unit. The log append
// is a separate write: either part may fail without the other, and no
// failure is retried or reported to the caller. Once issued, the writes run
// to completion even if ctx is cancelled.
func (l *Ledger) Award(ctx context.Context, userID string, delta int64, reason string) {
	if userID == "" || delta == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	entry := l.logger.WithFields(log.Fields{"user_id": userID, "points": delta, "reason": reason})
	entry.Info("Awarding points")

	if err := l.store.IncrementPoints(ctx, userID, delta); err != nil {
		entry.WithError(err).Error("Failed to award points")
	} else {
		l.publish(live.ProfileTopic(userID), live.LeaderboardTopic)
	}

	pointLog := models.PointLog{
		UserID:    userID,
		Points:    delta,
		Reason:    reason,
		Timestamp: l.now(),
	}
	if err := l.store.InsertPointLog(ctx, pointLog); err != nil {
		entry.WithError(err).Error("Failed to append point log")
	} else {
		l.publish(live.PointLogTopic(userID))
	}
}

// StartRoute awards the option's reward when it is worth more than
// StartRouteMinPoints and returns the number of points awarded.
func (l *Ledger) StartRoute(ctx context.Context, userID string, option models.RouteOption) int64 {
	l.logger.WithFields(log.Fields{"user_id": userID, "route_id": option.ID}).Info("Starting navigation")
	if option.RewardPoints <= StartRouteMinPoints {
		return 0
	}
	l.Award(ctx, userID, option.RewardPoints, "Started "+option.Name)
	return option.RewardPoints
}

// EnsureProfile creates the default profile if the user has none yet.
func (l *Ledger) EnsureProfile(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	_, err := l.store.FindProfile(ctx, userID)
	if err == nil {
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		l.logger.WithError(err).WithField("user_id", userID).Error("Failed to check profile")
		return
	}
	if err := l.store.CreateProfileIfMissing(ctx, models.DefaultProfile(userID)); err != nil {
		l.logger.WithError(err).WithField("user_id", userID).Error("Failed to create profile")
		return
	}
	l.publish(live.ProfileTopic(userID))
}

// Profile returns the user's profile, or the default profile if none is
// stored. The default is not persisted.
func (l *Ledger) Profile(ctx context.Context, userID string) (models.UserProfile, error) {
	profile, err := l.store.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.DefaultProfile(userID), nil
		}
		return models.UserProfile{}, fmt.Errorf("find profile: %w", err)
	}
	profile.UserID = userID
	return *profile, nil
}

// Leaderboard returns the top entries by points.
func (l *Ledger) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := l.store.FindLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("find leaderboard: %w", err)
	}
	return RankLeaderboard(entries, LeaderboardSize), nil
}

// Garage returns the user's saved vehicles.
func (l *Ledger) Garage(ctx context.Context, userID string) ([]models.GarageVehicle, error) {
	vehicles, err := l.store.FindVehicles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find vehicles: %w", err)
	}
	return vehicles, nil
}

// PointLogs returns the user's award history, newest first.
func (l *Ledger) PointLogs(ctx context.Context, userID string) ([]models.PointLog, error) {
	logs, err := l.store.FindPointLogs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find point logs: %w", err)
	}
	return logs, nil
}

// AddVehicle appends a vehicle to the user's garage. The store assigns the
// id; the creation time is set here.
func (l *Ledger) AddVehicle(ctx context.Context, userID string, vehicle *models.GarageVehicle) {
	if userID == "" || vehicle == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	v := *vehicle
	v.UserID = userID
	v.CreatedAt = l.now()
	if _, err := l.store.InsertVehicle(ctx, v); err != nil {
		l.logger.WithError(err).WithField("user_id", userID).Error("Failed to add vehicle")
		return
	}
	l.logger.WithFields(log.Fields{"user_id": userID, "model": v.Model}).Info("Vehicle added to garage")
	l.publish(live.GarageTopic(userID))
}

// SubmitFeedback records the feedback and, once the write returns, awards
// FeedbackPoints.
func (l *Ledger) SubmitFeedback(ctx context.Context, userID string, feedback *models.Feedback) {
	if userID == "" || feedback == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	f := *feedback
	if f.Type == "" {
		f.Type = models.FeedbackTypeRoute
	}
	if f.RouteID == "" {
		f.RouteID = models.GeneralRouteID
	}
	f.UserID = userID
	f.Timestamp = l.now()

	if err := l.store.InsertFeedback(ctx, f); err != nil {
		l.logger.WithError(err).WithField("user_id", userID).Error("Failed to submit feedback")
		return
	}
	l.logger.WithFields(log.Fields{"user_id": userID, "route_id": f.RouteID}).Info("Feedback submitted")
	l.publish(live.FeedbackTopic)

	l.Award(ctx, userID, FeedbackPoints, FeedbackReason)
}

// HandleRemoteChange announces a change made outside this process.
func (l *Ledger) HandleRemoteChange(change db.Change) {
	switch change.Collection {
	case db.ProfilesCollection:
		l.publish(live.ProfileTopic(change.UserID))
	case db.LeaderboardCollection:
		l.publish(live.LeaderboardTopic)
	case db.GarageCollection:
		l.publish(live.GarageTopic(change.UserID))
	case db.PointLogsCollection:
		l.publish(live.PointLogTopic(change.UserID))
	case db.FeedbackCollection:
		l.publish(live.FeedbackTopic)
	}
}

func (l *Ledger) publish(topics ...string) {
	for _, t := range topics {
		l.hub.Publish(t)
	}
}

// RankLeaderboard sorts entries by points, highest first, and keeps the
// first limit. Equal points keep their input order. The input is not modified.
func RankLeaderboard(entries []models.LeaderboardEntry, limit int) []models.LeaderboardEntry {
	ranked := make([]models.LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
