package service

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/atinyakov/dishrank/internal/models"
	"go.uber.org/zap"
)

// Catalog is the working list of votable dishes plus the image overrides a
// user picked for some of them. Overrides are persisted, the list is not.
type Catalog struct {
	notifier

	kv  KeyValueStore
	log *zap.Logger

	mu     sync.RWMutex
	dishes []models.Dish
	custom map[int]string
}

// NewCatalog returns an empty catalog.
func NewCatalog(kv KeyValueStore, log *zap.Logger) *Catalog {
	return &Catalog{kv: kv, log: log, custom: map[int]string{}}
}

// Load restores persisted image overrides. Unreadable data leaves no overrides.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.custom = map[int]string{}

	raw, ok, err := c.kv.Get(ctx, KeyCustomImages)
	if err != nil {
		return fmt.Errorf("load custom images: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	custom := map[int]string{}
	if err := json.Unmarshal([]byte(raw), &custom); err != nil {
		return fmt.Errorf("decode custom images: %w", err)
	}
	c.custom = custom
	return nil
}

// SetDishes replaces the working catalog.
func (c *Catalog) SetDishes(dishes []models.Dish) {
	c.mu.Lock()
	c.dishes = slices.Clone(dishes)
	c.mu.Unlock()

	c.log.Debug("catalog replaced", zap.Int("dishes", len(dishes)))
	c.publish(Event{Kind: EventCatalog})
}

// Dishes returns the catalog in its original order with overrides applied.
func (c *Catalog) Dishes() []models.Dish {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Dish, len(c.dishes))
	for i, d := range c.dishes {
		if img, ok := c.custom[d.ID]; ok {
			d.Image = img
		}
		out[i] = d
	}
	return out
}

// Dish looks a single dish up by id.
func (c *Catalog) Dish(id int) (models.Dish, bool) {
	for _, d := range c.Dishes() {
		if d.ID == id {
			return d, true
		}
	}
	return models.Dish{}, false
}

// SetCustomImage overrides the image shown for dishID and persists the choice.
func (c *Catalog) SetCustomImage(ctx context.Context, dishID int, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyImage
	}

	c.mu.Lock()
	if !c.hasDish(dishID) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownDish, dishID)
	}
	next := maps.Clone(c.custom)
	next[dishID] = url
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.custom = next
	c.mu.Unlock()

	c.publish(Event{Kind: EventCustomImage, DishID: dishID})
	return nil
}

// RemoveCustomImage drops the override for dishID, restoring the loader's image.
func (c *Catalog) RemoveCustomImage(ctx context.Context, dishID int) error {
	c.mu.Lock()
	if _, ok := c.custom[dishID]; !ok {
		c.mu.Unlock()
		return nil
	}
	next := maps.Clone(c.custom)
	delete(next, dishID)
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.custom = next
	c.mu.Unlock()

	c.publish(Event{Kind: EventCustomImage, DishID: dishID})
	return nil
}

func (c *Catalog) hasDish(id int) bool {
	for _, d := range c.dishes {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (c *Catalog) persist(ctx context.Context, custom map[int]string) error {
	b, err := json.Marshal(custom)
	if err != nil {
		return fmt.Errorf("encode custom images: %w", err)
	}
	if err := c.kv.Set(ctx, KeyCustomImages, string(b)); err != nil {
		return fmt.Errorf("persist custom images: %w", err)
	}
	return nil
}
