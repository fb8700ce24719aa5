package details

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"flickpick/internal/remote"
	"flickpick/models"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"
)

// ErrSuperseded is returned when a newer Load replaced this one while its
// fetches were in flight. The caller must discard the result; the bundle for
// the newest selection is the only one that may be applied.
var ErrSuperseded = errors.New("detail load superseded by a newer selection")

// SimilarSource provides the similar-movies feed, served by the recommender.
type SimilarSource interface {
	Similar(ctx context.Context, movieID int64) ([]models.Movie, error)
}

// Aggregator assembles the details-page bundle for a movie from three
// independent sources: TMDB metadata, TMDB videos and the recommender's
// similar feed. The three fetches run concurrently; only the metadata fetch
// is fatal, the other two degrade to empty values.
type Aggregator struct {
	tmdb    *tmdbClient
	similar SimilarSource

	// current holds the most recently requested movie id; loads for any
	// other id are stale and their results are dropped (last-selection-wins).
	current atomic.Int64
}

// NewAggregator wires a TMDB client throttled to stay under the API's QPS
// allowance. An empty tmdbBaseURL selects the public API.
func NewAggregator(tmdbBaseURL, apiKey, language string, similar SimilarSource, timeout time.Duration) *Aggregator {
	client := remote.NewClient(timeout).WithLimiter(rate.NewLimiter(rate.Limit(4), 8))
	return &Aggregator{
		tmdb:    newTMDBClient(tmdbBaseURL, apiKey, language, client),
		similar: similar,
	}
}

// Load fetches the bundle for movieID. Metadata, trailer and similar list are
// requested concurrently and joined independently; each is bounded by the
// transport timeout. If Load is called again for a different id before this
// one finishes, the older call returns ErrSuperseded.
func (a *Aggregator) Load(ctx context.Context, movieID int64) (models.DetailBundle, error) {
	a.current.Store(movieID)

	var (
		metadata   *models.MovieDetails
		trailerKey string
		similar    []models.Movie
	)

	p := pool.New().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		details, err := a.tmdb.movieDetails(ctx, movieID)
		if err != nil {
			return fmt.Errorf("movie metadata: %w", err)
		}
		metadata = details
		return nil
	})

	p.Go(func(ctx context.Context) error {
		videos, err := a.tmdb.movieVideos(ctx, movieID)
		if err != nil {
			log.Printf("[details] trailer fetch failed id=%d err=%v", movieID, err)
			return nil
		}
		trailerKey = firstTrailerKey(videos)
		return nil
	})

	p.Go(func(ctx context.Context) error {
		if a.similar == nil {
			return nil
		}
		movies, err := a.similar.Similar(ctx, movieID)
		if err != nil {
			log.Printf("[details] similar fetch failed id=%d err=%v", movieID, err)
			return nil
		}
		similar = movies
		return nil
	})

	if err := p.Wait(); err != nil {
		return models.DetailBundle{}, err
	}

	if a.current.Load() != movieID {
		return models.DetailBundle{}, ErrSuperseded
	}

	if similar == nil {
		similar = []models.Movie{}
	}
	return models.DetailBundle{
		Metadata:      metadata,
		TrailerKey:    trailerKey,
		SimilarMovies: similar,
	}, nil
}
