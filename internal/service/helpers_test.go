package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/atinyakov/dishrank/internal/client/storage"
	"github.com/atinyakov/dishrank/internal/models"
	"github.com/atinyakov/dishrank/internal/repository"
)

var errStorage = errors.New("storage unavailable")

// flakyStore wraps a MemoryStore and fails writes or reads on demand.
type flakyStore struct {
	*storage.MemoryStore

	mu        sync.Mutex
	failGet   bool
	failWrite bool
	writes    int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return "", false, errStorage
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	fail := f.failWrite
	f.writes++
	f.mu.Unlock()
	if fail {
		return errStorage
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failWrite
	f.writes++
	f.mu.Unlock()
	if fail {
		return errStorage
	}
	return f.MemoryStore.Delete(ctx, key)
}

func (f *flakyStore) setFailWrite(v bool) {
	f.mu.Lock()
	f.failWrite = v
	f.mu.Unlock()
}

func (f *flakyStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// fixedIdentity is an Identity whose user can be switched by tests.
type fixedIdentity struct {
	mu   sync.Mutex
	user string
	ok   bool
}

func (f *fixedIdentity) CurrentUser() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, f.ok
}

func (f *fixedIdentity) as(user string) {
	f.mu.Lock()
	f.user, f.ok = user, true
	f.mu.Unlock()
}

func (f *fixedIdentity) signOut() {
	f.mu.Lock()
	f.user, f.ok = "", false
	f.mu.Unlock()
}

func testRoster() *repository.JSONRosterRepository {
	return repository.NewRosterRepository([]models.User{
		{Username: "alice", Password: "secret"},
		{Username: "bob", Password: "hunter2"},
	})
}

func testDishes() []models.Dish {
	return []models.Dish{
		{ID: 1, DishName: "Biryani", Description: "Layered rice", Image: "biryani.jpg"},
		{ID: 2, DishName: "Dosa", Description: "Rice crepe", Image: "dosa.jpg"},
		{ID: 3, DishName: "Paneer Tikka", Description: "Grilled cheese", Image: "paneer.jpg"},
		{ID: 4, DishName: "Chole", Description: "Chickpea curry"},
		{ID: 5, DishName: "Gulab Jamun", Description: "Syrup dumplings"},
	}
}

func rankPtr(r models.Rank) *models.Rank { return &r }
