package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Change describes a remote write to one of the namespace collections.
type Change struct {
	Collection string
	UserID     string // empty when the document is not owned by a user
}

type changeEvent struct {
	NS struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
	DocumentKey struct {
		ID interface{} `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument bson.Raw `bson:"fullDocument"`
}

// WatchChanges streams change events for the database and reports each one
// to notify until ctx is done. Requires a replica set or sharded cluster.
func WatchChanges(ctx context.Context, database *mongo.Database, notify func(Change)) error {
	if database == nil {
		return fmt.Errorf("mongo database is nil")
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := database.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var ev changeEvent
		if err := stream.Decode(&ev); err != nil {
			return fmt.Errorf("decode change event: %w", err)
		}
		if change, ok := changeFromEvent(ev); ok {
			notify(change)
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("change stream: %w", err)
	}
	return nil
}

func changeFromEvent(ev changeEvent) (Change, bool) {
	switch ev.NS.Coll {
	case ProfilesCollection, LeaderboardCollection:
		// keyed by user id
		id, _ := ev.DocumentKey.ID.(string)
		return Change{Collection: ev.NS.Coll, UserID: id}, true
	case GarageCollection, PointLogsCollection:
		var owner string
		if ev.FullDocument != nil {
			if v, err := ev.FullDocument.LookupErr("user_id"); err == nil {
				owner, _ = v.StringValueOK()
			}
		}
		return Change{Collection: ev.NS.Coll, UserID: owner}, owner != ""
	case FeedbackCollection:
		return Change{Collection: ev.NS.Coll}, true
	default:
		return Change{}, false
	}
}
