package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mdr/duck-rewards-website/internal/api/middleware"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/service"
)

type BusinessHandler struct {
	businessService *service.BusinessService
}

func NewBusinessHandler(businessService *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// Me returns the partnership record owned by the signed-in business account.
func (h *BusinessHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	business, err := h.businessService.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			http.Error(w, "Business not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(business)
}

// ConsumeAlert spends one duck alert from the business's monthly quota.
func (h *BusinessHandler) ConsumeAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	business, err := h.businessService.ConsumeDuckAlert(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusinessNotFound):
			http.Error(w, "Business not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNoAlertsRemaining):
			http.Error(w, "No duck alerts remaining for this membership tier", http.StatusConflict)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(business)
}
