package models

import "time"

// WatchlistItem is the projection of a movie saved by the user for later.
// Items are created on add, never mutated in place, and removed on demand.
type WatchlistItem struct {
	MovieID     int64     `json:"movieId"`
	Title       string    `json:"title"`
	Poster      string    `json:"poster,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
}
