package db

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/eco-routes/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo("mongodb://bad:uri")
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestMongoStore_NilClient(t *testing.T) {
	store := NewMongoStore(nil, "test")
	ctx := context.Background()

	assert.Error(t, store.Ping(ctx))
	assert.Error(t, store.IncrementPoints(ctx, "user-1", 10))
	assert.Error(t, store.InsertPointLog(ctx, models.PointLog{UserID: "user-1"}))
	assert.Error(t, store.InsertFeedback(ctx, models.Feedback{}))
	_, err := store.FindProfile(ctx, "user-1")
	assert.Error(t, err)
	_, err = store.InsertVehicle(ctx, models.GarageVehicle{})
	assert.Error(t, err)
}

func TestChangeFromEvent(t *testing.T) {
	garageDoc, err := bson.Marshal(bson.M{"user_id": "user-7", "model": "Nexon EV"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		ev     changeEvent
		want   Change
		wantOK bool
	}{
		{
			name:   "profile keyed by user",
			ev:     newEvent(ProfilesCollection, "user-1", nil),
			want:   Change{Collection: ProfilesCollection, UserID: "user-1"},
			wantOK: true,
		},
		{
			name:   "leaderboard keyed by user",
			ev:     newEvent(LeaderboardCollection, "user-2", nil),
			want:   Change{Collection: LeaderboardCollection, UserID: "user-2"},
			wantOK: true,
		},
		{
			name:   "garage owner from full document",
			ev:     newEvent(GarageCollection, "65f000000000000000000000", garageDoc),
			want:   Change{Collection: GarageCollection, UserID: "user-7"},
			wantOK: true,
		},
		{
			name:   "garage without full document",
			ev:     newEvent(GarageCollection, "65f000000000000000000000", nil),
			wantOK: false,
		},
		{
			name:   "feedback is public",
			ev:     newEvent(FeedbackCollection, "x", nil),
			want:   Change{Collection: FeedbackCollection},
			wantOK: true,
		},
		{
			name:   "unknown collection",
			ev:     newEvent("sessions", "x", nil),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := changeFromEvent(tt.ev)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func newEvent(coll string, id interface{}, full bson.Raw) changeEvent {
	var ev changeEvent
	ev.NS.Coll = coll
	ev.DocumentKey.ID = id
	ev.FullDocument = full
	return ev
}

// Integration tests below require a running MongoDB replica set (transactions).

func integrationStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	client, err := ConnectMongo(uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	store := NewMongoStore(client, "test_eco_routes")
	require.NoError(t, store.Database().Drop(context.Background()))
	return store
}

func TestMongoStore_IncrementPoints_Integration(t *testing.T) {
	store := integrationStore(t)
	ctx := context.Background()

	require.NoError(t, store.IncrementPoints(ctx, "user-1", 20))
	require.NoError(t, store.IncrementPoints(ctx, "user-1", 5))

	profile, err := store.FindProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), profile.Points)
	assert.Equal(t, models.DefaultProfileName, profile.Name)

	entries, err := store.FindLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1", entries[0].UserID)
	assert.Equal(t, int64(25), entries[0].Points)
}

func TestMongoStore_ConcurrentIncrements_Integration(t *testing.T) {
	store := integrationStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, delta := range []int64{10, 5} {
		wg.Add(1)
		go func(d int64) {
			defer wg.Done()
			// write conflicts between the two transactions surface as errors
			for i := 0; i < 5; i++ {
				if err := store.IncrementPoints(ctx, "user-2", d); err == nil {
					return
				}
			}
		}(delta)
	}
	wg.Wait()

	profile, err := store.FindProfile(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, int64(15), profile.Points)
}

func TestMongoStore_CreateProfileIfMissing_Integration(t *testing.T) {
	store := integrationStore(t)
	ctx := context.Background()

	_, err := store.FindProfile(ctx, "user-3")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.IncrementPoints(ctx, "user-3", 30))
	require.NoError(t, store.CreateProfileIfMissing(ctx, models.DefaultProfile("user-3")))

	profile, err := store.FindProfile(ctx, "user-3")
	require.NoError(t, err)
	assert.Equal(t, int64(30), profile.Points, "existing points must survive")
}

func TestMongoStore_GarageAndLogs_Integration(t *testing.T) {
	store := integrationStore(t)
	ctx := context.Background()

	carbon := 95.0
	v, err := store.InsertVehicle(ctx, models.GarageVehicle{UserID: "user-4", Model: "Swift", FuelType: models.FuelPetrol, CarbonGPerKm: &carbon})
	require.NoError(t, err)
	assert.False(t, v.ID.IsZero())
	assert.False(t, v.CreatedAt.IsZero())

	vehicles, err := store.FindVehicles(ctx, "user-4")
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Swift", vehicles[0].Model)

	now := time.Now()
	require.NoError(t, store.InsertPointLog(ctx, models.PointLog{UserID: "user-4", Points: 10, Reason: "a", Timestamp: now.Add(-time.Minute)}))
	require.NoError(t, store.InsertPointLog(ctx, models.PointLog{UserID: "user-4", Points: 5, Reason: "b", Timestamp: now}))

	logs, err := store.FindPointLogs(ctx, "user-4")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "b", logs[0].Reason)
}
