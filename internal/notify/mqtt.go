// Package notify pushes ledger snapshots to devices over MQTT.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/live"
	"github.com/ukydev/eco-routes/internal/models"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Publisher is the subset of an MQTT client used here.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// SnapshotSource loads the snapshots that get pushed.
type SnapshotSource interface {
	Profile(ctx context.Context, userID string) (models.UserProfile, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

// Connect opens an MQTT connection to brokerURL.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	if clientID == "" {
		clientID = "eco-routes-" + uuid.NewString()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return client, nil
}

// Bridge republishes profile and leaderboard snapshots as retained
// messages whenever the hub reports a change.
type Bridge struct {
	client    Publisher
	source    SnapshotSource
	namespace string
}

// NewBridge creates a bridge publishing under namespace.
func NewBridge(client Publisher, source SnapshotSource, namespace string) *Bridge {
	return &Bridge{client: client, source: source, namespace: strings.TrimSuffix(namespace, "/")}
}

// ProfileTopic is the MQTT topic carrying one user's profile.
func (b *Bridge) ProfileTopic(userID string) string {
	return b.namespace + "/users/" + userID + "/profile"
}

// LeaderboardTopic is the MQTT topic carrying the leaderboard.
func (b *Bridge) LeaderboardTopic() string {
	return b.namespace + "/public/leaderboard"
}

// Run forwards changes from hub until ctx is done.
func (b *Bridge) Run(ctx context.Context, hub *live.Hub) {
	feed, cancel := hub.SubscribeAll()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-feed.Wake():
			for _, topic := range feed.Drain() {
				if err := b.forward(ctx, topic); err != nil {
					log.WithError(err).WithField("topic", topic).Warn("Failed to publish snapshot")
				}
			}
		}
	}
}

func (b *Bridge) forward(ctx context.Context, topic string) error {
	switch {
	case topic == live.LeaderboardTopic:
		entries, err := b.source.Leaderboard(ctx)
		if err != nil {
			return err
		}
		return b.publish(b.LeaderboardTopic(), entries)
	case strings.HasPrefix(topic, live.ProfileTopic("")):
		userID := strings.TrimPrefix(topic, live.ProfileTopic(""))
		profile, err := b.source.Profile(ctx, userID)
		if err != nil {
			return err
		}
		return b.publish(b.ProfileTopic(userID), profile)
	default:
		return nil
	}
}

func (b *Bridge) publish(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	token := b.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}
