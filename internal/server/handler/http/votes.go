package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/dishrank/internal/models"
	"github.com/atinyakov/dishrank/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VoteService defines the ledger operations required by the VoteHandler.
type VoteService interface {
	VoteForDish(ctx context.Context, dishID int, rank models.Rank) error
	ClearVote(ctx context.Context, dishID int) error
}

// DishLookup resolves a dish by id.
type DishLookup interface {
	Dish(id int) (models.Dish, bool)
}

// VoteHandler handles rank assignments for the signed-in user.
type VoteHandler struct {
	VoteService VoteService
	Catalog     DishLookup
	Log         *zap.Logger
}

// VoteRequest is the body of PUT /api/votes/{dishID}.
type VoteRequest struct {
	Rank models.Rank `json:"rank"`
}

// Vote handles PUT /api/votes/{dishID}.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	dishID, ok := parseDishID(w, r, h.Catalog)
	if !ok {
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.VoteService.VoteForDish(r.Context(), dishID, req.Rank); err != nil {
		if errors.Is(err, service.ErrInvalidRank) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Log.Error("vote failed", zap.Int("dish_id", dishID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/votes/{dishID}.
func (h *VoteHandler) Clear(w http.ResponseWriter, r *http.Request) {
	dishID, ok := parseDishID(w, r, h.Catalog)
	if !ok {
		return
	}

	if err := h.VoteService.ClearVote(r.Context(), dishID); err != nil {
		h.Log.Error("clear vote failed", zap.Int("dish_id", dishID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseDishID reads the {dishID} URL parameter and checks it against the catalog.
func parseDishID(w http.ResponseWriter, r *http.Request, catalog DishLookup) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "dishID"))
	if err != nil {
		http.Error(w, "invalid dish id", http.StatusBadRequest)
		return 0, false
	}
	if _, ok := catalog.Dish(id); !ok {
		http.Error(w, "dish not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}
