package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/atinyakov/dishrank/internal/models"
	"go.uber.org/zap"
)

// VoteLedger holds every vote from every user and writes the whole collection
// through to storage after each change.
//
// For a single user it guarantees at most one vote per dish and at most one
// dish per rank.
type VoteLedger struct {
	notifier

	identity Identity
	kv       KeyValueStore
	log      *zap.Logger

	mu    sync.Mutex
	votes []models.Vote
}

// NewVoteLedger returns an empty ledger. Call Load to restore persisted votes.
func NewVoteLedger(identity Identity, kv KeyValueStore, log *zap.Logger) *VoteLedger {
	return &VoteLedger{identity: identity, kv: kv, log: log, votes: []models.Vote{}}
}

// Load replaces the in-memory ledger with the persisted one. A missing key
// means no votes. Unreadable data leaves the ledger empty and is returned as an error.
// Stored votes are replayed in order, so a collection that breaks the per-user
// invariants is repaired the same way live assignments would be.
func (l *VoteLedger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.votes = []models.Vote{}

	raw, ok, err := l.kv.Get(ctx, KeyVotes)
	if err != nil {
		return fmt.Errorf("load votes: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	var stored []models.Vote
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return fmt.Errorf("decode votes: %w", err)
	}

	votes := []models.Vote{}
	for _, v := range stored {
		if !v.Rank.Valid() || v.UserID == "" {
			continue
		}
		votes = assign(votes, v)
	}
	if dropped := len(stored) - len(votes); dropped > 0 {
		l.log.Warn("dropped inconsistent stored votes", zap.Int("dropped", dropped))
	}
	l.votes = votes
	return nil
}

// VoteForDish gives dishID the rank for the signed-in user. Any earlier vote by
// that user on the dish, and any other dish the user had at that rank, is removed.
// Without a signed-in user the call does nothing.
func (l *VoteLedger) VoteForDish(ctx context.Context, dishID int, rank models.Rank) error {
	if !rank.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidRank, rank)
	}
	userID, ok := l.identity.CurrentUser()
	if !ok {
		l.log.Debug("vote ignored: nobody signed in", zap.Int("dish_id", dishID))
		return nil
	}

	vote := models.Vote{UserID: userID, DishID: dishID, Rank: rank}

	l.mu.Lock()
	next := assign(l.votes, vote)
	if err := l.persist(ctx, next); err != nil {
		l.mu.Unlock()
		return err
	}
	l.votes = next
	l.mu.Unlock()

	l.log.Debug("vote recorded",
		zap.String("user", userID), zap.Int("dish_id", dishID), zap.Int("rank", int(rank)))
	l.publish(Event{Kind: EventVote, UserID: userID, DishID: dishID, Rank: rank})
	return nil
}

// ClearVote removes the signed-in user's vote on dishID. It does nothing when
// there is no such vote or nobody is signed in.
func (l *VoteLedger) ClearVote(ctx context.Context, dishID int) error {
	userID, ok := l.identity.CurrentUser()
	if !ok {
		return nil
	}

	l.mu.Lock()
	next, removed := remove(l.votes, userID, dishID)
	if !removed {
		l.mu.Unlock()
		return nil
	}
	if err := l.persist(ctx, next); err != nil {
		l.mu.Unlock()
		return err
	}
	l.votes = next
	l.mu.Unlock()

	l.publish(Event{Kind: EventClearVote, UserID: userID, DishID: dishID})
	return nil
}

// Votes returns a copy of all votes from all users.
func (l *VoteLedger) Votes() []models.Vote {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.votes)
}

// UserVotes returns the votes cast by userID.
func (l *VoteLedger) UserVotes(userID string) []models.Vote {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []models.Vote{}
	for _, v := range l.votes {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out
}

func (l *VoteLedger) persist(ctx context.Context, votes []models.Vote) error {
	b, err := json.Marshal(votes)
	if err != nil {
		return fmt.Errorf("encode votes: %w", err)
	}
	if err := l.kv.Set(ctx, KeyVotes, string(b)); err != nil {
		return fmt.Errorf("persist votes: %w", err)
	}
	return nil
}

// assign returns a new collection where v replaces the voter's previous vote on
// the same dish and the voter's previous vote at the same rank.
func assign(votes []models.Vote, v models.Vote) []models.Vote {
	out := make([]models.Vote, 0, len(votes)+1)
	for _, old := range votes {
		if old.UserID == v.UserID && (old.DishID == v.DishID || old.Rank == v.Rank) {
			continue
		}
		out = append(out, old)
	}
	return append(out, v)
}

// remove returns a new collection without userID's vote on dishID.
func remove(votes []models.Vote, userID string, dishID int) ([]models.Vote, bool) {
	out := make([]models.Vote, 0, len(votes))
	removed := false
	for _, old := range votes {
		if old.UserID == userID && old.DishID == dishID {
			removed = true
			continue
		}
		out = append(out, old)
	}
	return out, removed
}
