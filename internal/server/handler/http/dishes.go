package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/dishrank/internal/models"
	"github.com/atinyakov/dishrank/internal/service"
	"go.uber.org/zap"
)

// CatalogService defines the catalog operations required by the DishHandler.
type CatalogService interface {
	DishLookup
	Dishes() []models.Dish
	SetCustomImage(ctx context.Context, dishID int, url string) error
	RemoveCustomImage(ctx context.Context, dishID int) error
}

// RankingService computes the leaderboard.
type RankingService interface {
	GetRankings() []models.RankedDish
}

// DishHandler serves the catalog, the leaderboard and custom images.
type DishHandler struct {
	Catalog  CatalogService
	Rankings RankingService
	Log      *zap.Logger
}

// ImageRequest is the body of PUT /api/dishes/{dishID}/image.
type ImageRequest struct {
	URL string `json:"url"`
}

// List handles GET /api/dishes.
func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Dishes())
}

// Leaderboard handles GET /api/rankings.
func (h *DishHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Rankings.GetRankings())
}

// SetImage handles PUT /api/dishes/{dishID}/image.
func (h *DishHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	dishID, ok := parseDishID(w, r, h.Catalog)
	if !ok {
		return
	}

	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Catalog.SetCustomImage(r.Context(), dishID, req.URL); err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyImage):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrUnknownDish):
			http.Error(w, "dish not found", http.StatusNotFound)
		default:
			h.Log.Error("set custom image failed", zap.Int("dish_id", dishID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveImage handles DELETE /api/dishes/{dishID}/image.
func (h *DishHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	dishID, ok := parseDishID(w, r, h.Catalog)
	if !ok {
		return
	}

	if err := h.Catalog.RemoveCustomImage(r.Context(), dishID); err != nil {
		h.Log.Error("remove custom image failed", zap.Int("dish_id", dishID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
