package rewards

import (
	"context"

	"github.com/ukydev/eco-routes/internal/live"
	"github.com/ukydev/eco-routes/internal/models"
)

// SubscribeProfile streams the user's profile: once immediately and again
// after every change. A missing profile is reported as the default without
// being created; call EnsureProfile for that.
func (l *Ledger) SubscribeProfile(ctx context.Context, userID string) *live.Subscription[models.UserProfile] {
	load := func(ctx context.Context) (models.UserProfile, error) {
		return l.Profile(ctx, userID)
	}
	return live.Watch(ctx, l.hub, load, live.ProfileTopic(userID))
}

// SubscribeLeaderboard streams the ranked top entries. The full ranking is
// recomputed on every leaderboard change.
func (l *Ledger) SubscribeLeaderboard(ctx context.Context) *live.Subscription[[]models.LeaderboardEntry] {
	return live.Watch(ctx, l.hub, l.Leaderboard, live.LeaderboardTopic)
}

// SubscribeGarage streams the user's garage.
func (l *Ledger) SubscribeGarage(ctx context.Context, userID string) *live.Subscription[[]models.GarageVehicle] {
	load := func(ctx context.Context) ([]models.GarageVehicle, error) {
		return l.Garage(ctx, userID)
	}
	return live.Watch(ctx, l.hub, load, live.GarageTopic(userID))
}
