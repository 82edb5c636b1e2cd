// Package live turns write notifications into streams of fresh snapshots.
package live

import (
	"sync"
)

// Topic names used by the rewards ledger.
const (
	LeaderboardTopic = "leaderboard"
	FeedbackTopic    = "feedback"
)

// ProfileTopic is the topic for one user's profile document.
func ProfileTopic(userID string) string { return "profile/" + userID }

// GarageTopic is the topic for one user's garage collection.
func GarageTopic(userID string) string { return "garage/" + userID }

// PointLogTopic is the topic for one user's point log.
func PointLogTopic(userID string) string { return "point_logs/" + userID }

type subscriber struct {
	topics map[string]struct{}
	ch     chan string
	feed   *Feed // set for every-topic subscribers
}

// Feed collects the distinct topics changed since the last Drain. A new
// topic signals Wake unless a signal is already pending.
type Feed struct {
	mu      sync.Mutex
	pending map[string]struct{}
	order   []string
	wake    chan struct{}
}

func newFeed() *Feed {
	return &Feed{pending: make(map[string]struct{}), wake: make(chan struct{}, 1)}
}

// Wake receives a value when topics are waiting to be drained.
func (f *Feed) Wake() <-chan struct{} {
	return f.wake
}

// Drain returns the pending topics in first-publish order and clears them.
func (f *Feed) Drain() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := f.order
	f.order = nil
	f.pending = make(map[string]struct{})
	return topics
}

func (f *Feed) add(topic string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pending[topic]; ok {
		return
	}
	f.pending[topic] = struct{}{}
	f.order = append(f.order, topic)
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Hub fans change notifications out to subscribers. Publish never blocks:
// a topic subscriber with a pending notification gets the new one folded
// into it, and every-topic subscribers accumulate a set of changed topics.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Publish notifies every subscriber interested in topic.
func (h *Hub) Publish(topic string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if s.feed != nil {
			s.feed.add(topic)
			continue
		}
		if _, ok := s.topics[topic]; !ok {
			continue
		}
		select {
		case s.ch <- topic:
		default:
			// pending notification already queued
		}
	}
}

// Subscribe registers interest in the given topics. The returned channel
// receives the topic name on each change; cancel releases the subscription.
func (h *Hub) Subscribe(topics ...string) (<-chan string, func()) {
	set := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		set[t] = struct{}{}
	}
	s := &subscriber{topics: set, ch: make(chan string, 1)}
	return s.ch, h.add(s)
}

// SubscribeAll registers interest in every topic. No change is lost while
// the caller is busy; repeated changes to one topic are merged.
func (h *Hub) SubscribeAll() (*Feed, func()) {
	feed := newFeed()
	return feed, h.add(&subscriber{feed: feed})
}

// Len reports the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) add(s *subscriber) func() {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
		})
	}
	return cancel
}
