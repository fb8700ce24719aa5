package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"flickpick/models"
	"flickpick/services/reviews"

	"github.com/gorilla/mux"
)

type reviewService interface {
	List(ctx context.Context, movieID int64) []models.Review
	Submit(ctx context.Context, movieID int64, rating int, text string) (models.Review, error)
}

var _ reviewService = (*reviews.Service)(nil)

// ReviewsHandler exposes per-movie reviews: a fail-soft list and a validated
// submit that echoes the stored review back for optimistic display.
type ReviewsHandler struct {
	Service reviewService
}

func NewReviewsHandler(service reviewService) *ReviewsHandler {
	return &ReviewsHandler{Service: service}
}

func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.requireMovieID(w, r)
	if !ok {
		return
	}

	list := h.Service.List(r.Context(), movieID)
	if list == nil {
		list = []models.Review{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.requireMovieID(w, r)
	if !ok {
		return
	}

	var body struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	review, err := h.Service.Submit(r.Context(), movieID, body.Rating, body.Text)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		if errors.Is(err, reviews.ErrRatingOutOfRange) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		log.Printf("[reviews] submit failed id=%d err=%v", movieID, err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to submit review"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"review": review})
}

func (h *ReviewsHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *ReviewsHandler) requireMovieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(mux.Vars(r)["movieId"])
	movieID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || movieID <= 0 {
		http.Error(w, "movie id must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return movieID, true
}
