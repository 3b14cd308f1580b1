package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mdr/duck-rewards-website/internal/api/middleware"
	"github.com/mdr/duck-rewards-website/internal/repository"
	"gorm.io/gorm"
)

type DuckHandler struct {
	duckRepo repository.DuckRepository
}

func NewDuckHandler(duckRepo repository.DuckRepository) *DuckHandler {
	return &DuckHandler{duckRepo: duckRepo}
}

// Mine lists the ducks owned by the signed-in customer.
func (h *DuckHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ducks, err := h.duckRepo.GetByOwnerID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ducks)
}

// Lookup resolves a duck by its printed code.
func (h *DuckHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "Code is required", http.StatusBadRequest)
		return
	}

	duck, err := h.duckRepo.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Duck not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(duck)
}
