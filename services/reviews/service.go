package reviews

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"flickpick/internal/remote"
	"flickpick/models"
)

// ErrRatingOutOfRange is returned before any network call when a submitted
// rating falls outside 1..5.
var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// Service fetches and submits reviews for movies. Successful submissions are
// appended to the in-memory list optimistically; the full list is never
// re-fetched after a write.
type Service struct {
	baseURL string
	client  *remote.Client

	mu    sync.Mutex
	cache map[int64][]models.Review
}

// NewService builds a review client for the service at baseURL.
func NewService(baseURL string, timeout time.Duration) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  remote.NewClient(timeout),
		cache:   make(map[int64][]models.Review),
	}
}

// List fetches the reviews for a movie. Any failure degrades to an empty
// list: the display contract is "no reviews yet", never an error page.
func (s *Service) List(ctx context.Context, movieID int64) []models.Review {
	var fetched []models.Review
	url := fmt.Sprintf("%s/api/reviews/%d", s.baseURL, movieID)
	if err := s.client.GetJSON(ctx, url, &fetched); err != nil {
		log.Printf("[reviews] list failed id=%d err=%v", movieID, err)
		return []models.Review{}
	}
	if fetched == nil {
		fetched = []models.Review{}
	}

	s.mu.Lock()
	s.cache[movieID] = fetched
	cached := make([]models.Review, len(fetched))
	copy(cached, fetched)
	s.mu.Unlock()
	return cached
}

// Cached returns the in-memory list for a movie, including optimistic
// appends from this session.
func (s *Service) Cached(movieID int64) []models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached := make([]models.Review, len(s.cache[movieID]))
	copy(cached, s.cache[movieID])
	return cached
}

// Submit validates the rating locally, posts the review and appends the
// service's echo to the in-memory list. Remote failures surface to the caller
// so the UI can report the failure without losing the typed input.
func (s *Service) Submit(ctx context.Context, movieID int64, rating int, text string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrRatingOutOfRange
	}

	payload := map[string]any{
		"rating": rating,
		"text":   strings.TrimSpace(text),
	}
	var resp struct {
		Review models.Review `json:"review"`
	}
	url := fmt.Sprintf("%s/api/reviews/%d", s.baseURL, movieID)
	if err := s.client.PostJSON(ctx, url, payload, &resp); err != nil {
		return models.Review{}, err
	}

	review := resp.Review
	review.MovieID = movieID

	s.mu.Lock()
	s.cache[movieID] = append(s.cache[movieID], review)
	s.mu.Unlock()
	return review, nil
}
