package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atinyakov/dishrank/internal/models"
)

// catalogFile mirrors the layout of the dishes fixture: {"dishes": [...]}.
type catalogFile struct {
	Dishes []models.Dish `json:"dishes"`
}

// LoadDishes reads the dish catalog from path. Both {"dishes": [...]} and a bare
// array are accepted.
func LoadDishes(path string) ([]models.Dish, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var dishes []models.Dish
	var wrapped catalogFile
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Dishes != nil {
		dishes = wrapped.Dishes
	} else if err := json.Unmarshal(raw, &dishes); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[int]bool, len(dishes))
	for _, d := range dishes {
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate dish id %d", d.ID)
		}
		seen[d.ID] = true
	}
	return dishes, nil
}
