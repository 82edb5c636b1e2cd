package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/eco-routes/internal/db"
	"github.com/ukydev/eco-routes/internal/models"
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

var _ db.Store = (*MockStore)(nil)
