package rewards

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/eco-routes/internal/db"
	"github.com/ukydev/eco-routes/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockStore is a mock implementation of db.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockStore) CreateProfileIfMissing(ctx context.Context, profile models.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockStore) IncrementPoints(ctx context.Context, userID string, delta int64) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *MockStore) FindLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockStore) InsertPointLog(ctx context.Context, entry models.PointLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) FindPointLogs(ctx context.Context, userID string) ([]models.PointLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PointLog), args.Error(1)
}

func (m *MockStore) InsertVehicle(ctx context.Context, vehicle models.GarageVehicle) (*models.GarageVehicle, error) {
	args := m.Called(ctx, vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GarageVehicle), args.Error(1)
}

func (m *MockStore) FindVehicles(ctx context.Context, userID string) ([]models.GarageVehicle, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GarageVehicle), args.Error(1)
}

func (m *MockStore) InsertFeedback(ctx context.Context, feedback models.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// memStore is an in-memory db.Store with the same upsert semantics as MongoStore.
type memStore struct {
	mu          sync.Mutex
	profiles    map[string]models.UserProfile
	leaderboard map[string]models.LeaderboardEntry
	order       []string // leaderboard insertion order
	logs        []models.PointLog
	vehicles    []models.GarageVehicle
	feedback    []models.Feedback
	writes      int
}

func newMemStore() *memStore {
	return &memStore{
		profiles:    make(map[string]models.UserProfile),
		leaderboard: make(map[string]models.LeaderboardEntry),
	}
}

func (s *memStore) FindProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) CreateProfileIfMissing(ctx context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if _, ok := s.profiles[profile.UserID]; !ok {
		s.profiles[profile.UserID] = profile
	}
	return nil
}

func (s *memStore) IncrementPoints(ctx context.Context, userID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	p, ok := s.profiles[userID]
	if !ok {
		p = models.UserProfile{UserID: userID, Name: models.DefaultProfileName}
	}
	p.Points += delta
	s.profiles[userID] = p

	e, ok := s.leaderboard[userID]
	if !ok {
		e = models.LeaderboardEntry{ID: userID}
		s.order = append(s.order, userID)
	}
	e.UserID = userID
	e.Points += delta
	s.leaderboard[userID] = e
	return nil
}

func (s *memStore) FindLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LeaderboardEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.leaderboard[id])
	}
	return out, nil
}

func (s *memStore) InsertPointLog(ctx context.Context, entry models.PointLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	entry.ID = primitive.NewObjectID()
	s.logs = append(s.logs, entry)
	return nil
}

func (s *memStore) FindPointLogs(ctx context.Context, userID string) ([]models.PointLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PointLog
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].UserID == userID {
			out = append(out, s.logs[i])
		}
	}
	return out, nil
}

func (s *memStore) InsertVehicle(ctx context.Context, vehicle models.GarageVehicle) (*models.GarageVehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	vehicle.ID = primitive.NewObjectID()
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = time.Now()
	}
	s.vehicles = append(s.vehicles, vehicle)
	return &vehicle, nil
}

func (s *memStore) FindVehicles(ctx context.Context, userID string) ([]models.GarageVehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.GarageVehicle{}
	for _, v := range s.vehicles {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memStore) InsertFeedback(ctx context.Context, feedback models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	feedback.ID = primitive.NewObjectID()
	s.feedback = append(s.feedback, feedback)
	return nil
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

func (s *memStore) points(userID string) (profile, leaderboard int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID].Points, s.leaderboard[userID].Points
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// ctxStore fails every write whose context is already done, like the Mongo
// driver does.
type ctxStore struct {
	*memStore
}

func (s ctxStore) CreateProfileIfMissing(ctx context.Context, profile models.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memStore.CreateProfileIfMissing(ctx, profile)
}

func (s ctxStore) IncrementPoints(ctx context.Context, userID string, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memStore.IncrementPoints(ctx, userID, delta)
}

func (s ctxStore) InsertPointLog(ctx context.Context, entry models.PointLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memStore.InsertPointLog(ctx, entry)
}

func (s ctxStore) InsertVehicle(ctx context.Context, vehicle models.GarageVehicle) (*models.GarageVehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.memStore.InsertVehicle(ctx, vehicle)
}

func (s ctxStore) InsertFeedback(ctx context.Context, feedback models.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memStore.InsertFeedback(ctx, feedback)
}
