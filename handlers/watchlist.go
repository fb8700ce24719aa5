package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"flickpick/models"
	"flickpick/services/watchlist"

	"github.com/gorilla/mux"
)

type watchlistService interface {
	List() []models.WatchlistItem
	Add(item models.WatchlistItem) (watchlist.Outcome, error)
	Remove(movieID int64) (watchlist.Outcome, error)
	Contains(movieID int64) bool
}

var _ watchlistService = (*watchlist.Service)(nil)

// WatchlistHandler exposes the watch-list store to the presentation layer.
// Mutation responses carry the store's outcome so the UI can decide whether
// and how to toast.
type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(service watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: service}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Service.List()
	if items == nil {
		items = []models.WatchlistItem{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body models.WatchlistItem
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outcome, err := h.Service.Add(body)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, watchlist.ErrMovieIDRequired) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outcome)
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.requireMovieID(w, r)
	if !ok {
		return
	}

	outcome, err := h.Service.Remove(movieID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, watchlist.ErrMovieIDRequired) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	if !outcome.Changed {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "movie not in watchlist"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outcome)
}

func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.requireMovieID(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"movieId":     movieID,
		"inWatchlist": h.Service.Contains(movieID),
	})
}

func (h *WatchlistHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *WatchlistHandler) requireMovieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(mux.Vars(r)["movieId"])
	movieID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || movieID <= 0 {
		http.Error(w, "movie id must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return movieID, true
}
