package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"flickpick/models"
	"flickpick/services/recommend"
)

type recommendService interface {
	Resolve(ctx context.Context, q recommend.Query) ([]models.Movie, error)
}

var _ recommendService = (*recommend.Dispatcher)(nil)

// RecommendationsHandler maps a mode selection from the UI onto the query
// dispatcher. Remote failures degrade to an empty movie list: the browse
// surface shows "no movies found" rather than an error.
type RecommendationsHandler struct {
	Service recommendService
}

func NewRecommendationsHandler(service recommendService) *RecommendationsHandler {
	return &RecommendationsHandler{Service: service}
}

// recommendationRequest is the wire shape of a mode selection. UserID is kept
// raw so both numeric and string JSON values pass through untouched.
type recommendationRequest struct {
	Mode     string          `json:"mode"`
	UserID   json.RawMessage `json:"userId,omitempty"`
	Movie    string          `json:"movie,omitempty"`
	Genre    string          `json:"genre,omitempty"`
	Actor    string          `json:"actor,omitempty"`
	Director string          `json:"director,omitempty"`
}

func (h *RecommendationsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var body recommendationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := recommend.Query{
		Mode:       recommend.Mode(body.Mode),
		UserID:     strings.Trim(string(body.UserID), `"`),
		MovieTitle: body.Movie,
		Genre:      body.Genre,
		Actor:      body.Actor,
		Director:   body.Director,
	}

	movies, err := h.Service.Resolve(r.Context(), query)
	if err != nil {
		if errors.Is(err, recommend.ErrUnknownMode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Fail soft: transport and decoding failures render as an empty grid.
		log.Printf("[recommendations] resolve failed mode=%s err=%v", query.Mode, err)
		movies = []models.Movie{}
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"movies": movies})
}

func (h *RecommendationsHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
