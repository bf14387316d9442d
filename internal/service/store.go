// Package service holds the client-side state of the dish ranking application:
// the signed-in identity, the vote ledger, the dish catalog and the leaderboard
// computed from them.
package service

import (
	"context"
	"sync"

	"github.com/atinyakov/dishrank/internal/models"
)

// Keys under which state is persisted in the KeyValueStore.
const (
	KeyCurrentUser  = "currentUser"
	KeyVotes        = "dishVotes"
	KeyCustomImages = "customImages"
)

// KeyValueStore is the durable storage the services write through to.
// Set must replace the value atomically.
type KeyValueStore interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// UserRepository looks users up in the static roster.
type UserRepository interface {
	// FindUser returns the roster entry for username, or nil if absent.
	FindUser(ctx context.Context, username string) (*models.User, error)
}

// Identity exposes the currently signed-in user.
type Identity interface {
	// CurrentUser returns the username and true, or "" and false when nobody is signed in.
	CurrentUser() (string, bool)
}

// EventKind names a committed state change.
type EventKind string

const (
	EventLogin       EventKind = "login"
	EventLogout      EventKind = "logout"
	EventVote        EventKind = "vote"
	EventClearVote   EventKind = "clear_vote"
	EventCatalog     EventKind = "catalog"
	EventCustomImage EventKind = "custom_image"
)

// Event describes a state change delivered to subscribers.
type Event struct {
	Kind   EventKind
	UserID string
	DishID int
	Rank   models.Rank
}

// notifier fans events out to registered callbacks.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// Subscribe registers fn to be called synchronously after every committed change.
// The returned function removes the subscription.
func (n *notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(Event))
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// publish must be called without holding the owner's state lock,
// so subscribers can read state back.
func (n *notifier) publish(e Event) {
	n.mu.Lock()
	subs := make([]func(Event), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
