package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/eco-routes/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoStore implements Store on top of one namespace database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a store over the named database.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	s := &MongoStore{client: client}
	if client != nil {
		s.db = client.Database(database)
	}
	return s
}

// Database returns the namespace database.
func (s *MongoStore) Database() *mongo.Database {
	return s.db
}

func (s *MongoStore) collection(name string) (*mongo.Collection, error) {
	if s.db == nil {
		return nil, fmt.Errorf("mongo database is nil")
	}
	return s.db.Collection(name), nil
}

// Ping checks that the server is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("mongo client is nil")
	}
	return s.client.Ping(ctx, nil)
}

// FindProfile finds a profile by user id.
func (s *MongoStore) FindProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	coll, err := s.collection(ProfilesCollection)
	if err != nil {
		return nil, err
	}
	var profile models.UserProfile
	err = coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// CreateProfileIfMissing writes the profile only when no document exists yet.
// Existing fields are never overwritten.
func (s *MongoStore) CreateProfileIfMissing(ctx context.Context, profile models.UserProfile) error {
	coll, err := s.collection(ProfilesCollection)
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": profile.UserID},
		bson.M{"$setOnInsert": bson.M{"points": profile.Points, "name": profile.Name}},
		options.Update().SetUpsert(true),
	)
	return err
}

// IncrementPoints runs the profile and leaderboard increments in a single
// transaction. The transaction is attempted once; callers decide on retries.
func (s *MongoStore) IncrementPoints(ctx context.Context, userID string, delta int64) error {
	profiles, err := s.collection(ProfilesCollection)
	if err != nil {
		return err
	}
	leaderboard := s.db.Collection(LeaderboardCollection)

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	upsert := options.Update().SetUpsert(true)
	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sess.StartTransaction(); err != nil {
			return fmt.Errorf("start transaction: %w", err)
		}

		_, err := profiles.UpdateOne(sc,
			bson.M{"_id": userID},
			bson.M{
				"$inc":         bson.M{"points": delta},
				"$setOnInsert": bson.M{"name": models.DefaultProfileName},
			},
			upsert,
		)
		if err != nil {
			_ = sess.AbortTransaction(sc)
			return fmt.Errorf("increment profile points: %w", err)
		}

		_, err = leaderboard.UpdateOne(sc,
			bson.M{"_id": userID},
			bson.M{
				"$inc": bson.M{"points": delta},
				"$set": bson.M{"user_id": userID},
			},
			upsert,
		)
		if err != nil {
			_ = sess.AbortTransaction(sc)
			return fmt.Errorf("increment leaderboard points: %w", err)
		}

		if err := sess.CommitTransaction(sc); err != nil {
			return fmt.Errorf("commit points transaction: %w", err)
		}
		return nil
	})
}

// FindLeaderboard returns every leaderboard entry, unordered.
func (s *MongoStore) FindLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	coll, err := s.collection(LeaderboardCollection)
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.LeaderboardEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// InsertPointLog appends an award record to the audit log.
func (s *MongoStore) InsertPointLog(ctx context.Context, entry models.PointLog) error {
	coll, err := s.collection(PointLogsCollection)
	if err != nil {
		return err
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err = coll.InsertOne(ctx, entry)
	return err
}

// FindPointLogs returns a user's award history, newest first.
func (s *MongoStore) FindPointLogs(ctx context.Context, userID string) ([]models.PointLog, error) {
	coll, err := s.collection(PointLogsCollection)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []models.PointLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// InsertVehicle adds a vehicle to a garage and returns it with its new id.
func (s *MongoStore) InsertVehicle(ctx context.Context, vehicle models.GarageVehicle) (*models.GarageVehicle, error) {
	coll, err := s.collection(GarageCollection)
	if err != nil {
		return nil, err
	}
	vehicle.ID = primitive.NewObjectID()
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = time.Now()
	}
	if _, err := coll.InsertOne(ctx, vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindVehicles lists a user's garage in insertion order.
func (s *MongoStore) FindVehicles(ctx context.Context, userID string) ([]models.GarageVehicle, error) {
	coll, err := s.collection(GarageCollection)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vehicles := []models.GarageVehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// InsertFeedback appends a feedback record to the public collection.
func (s *MongoStore) InsertFeedback(ctx context.Context, feedback models.Feedback) error {
	coll, err := s.collection(FeedbackCollection)
	if err != nil {
		return err
	}
	feedback.ID = primitive.NewObjectID()
	_, err = coll.InsertOne(ctx, feedback)
	return err
}
