package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"flickpick/internal/remote"
	"flickpick/models"
	"flickpick/services/details"

	"github.com/gorilla/mux"
)

type detailsService interface {
	Load(ctx context.Context, movieID int64) (models.DetailBundle, error)
}

var _ detailsService = (*details.Aggregator)(nil)

// DetailsHandler serves the combined details-page payload so the frontend
// opens a movie with a single round-trip.
type DetailsHandler struct {
	Service detailsService
}

func NewDetailsHandler(service detailsService) *DetailsHandler {
	return &DetailsHandler{Service: service}
}

func (h *DetailsHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(mux.Vars(r)["movieId"])
	movieID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || movieID <= 0 {
		http.Error(w, "movie id must be a positive integer", http.StatusBadRequest)
		return
	}

	bundle, err := h.Service.Load(r.Context(), movieID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case errors.Is(err, details.ErrSuperseded):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "superseded by a newer selection"})
		case remote.IsNotFound(err):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "movie not found"})
		default:
			log.Printf("[details] bundle load failed id=%d err=%v", movieID, err)
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": "failed to load movie details"})
		}
		return
	}

	// Ensure nil slices become empty arrays in JSON.
	if bundle.SimilarMovies == nil {
		bundle.SimilarMovies = []models.Movie{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bundle)
}

func (h *DetailsHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
