package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/atinyakov/dishrank/internal/models"
)

// JSONRosterRepository serves the static list of users allowed to log in.
type JSONRosterRepository struct {
	users []models.User
}

// NewRosterRepository wraps an in-memory roster.
func NewRosterRepository(users []models.User) *JSONRosterRepository {
	return &JSONRosterRepository{users: users}
}

// LoadRoster reads a JSON array of {username, password} from path.
func LoadRoster(path string) (*JSONRosterRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return NewRosterRepository(users), nil
}

// FindUser returns the roster entry for username, or nil when there is none.
func (r *JSONRosterRepository) FindUser(_ context.Context, username string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}
