package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flickpick/internal/remote"
	"flickpick/models"
)

// ErrUnknownMode is returned when a query names a mode outside the closed set.
var ErrUnknownMode = errors.New("unknown recommendation mode")

// modeSpec maps one mode to its endpoint, payload shape and the response
// field carrying the movie list. The recommender answers every mode with
// exactly one of two list fields: "recommendations" for personalized,
// "top_movies" for everything else.
type modeSpec struct {
	method    string
	path      string
	listField string
	payload   func(Query) map[string]string
}

var modeTable = map[Mode]modeSpec{
	ModeTrending: {
		method:    http.MethodGet,
		path:      "/api/trending",
		listField: "top_movies",
	},
	ModePersonalized: {
		method:    http.MethodPost,
		path:      "/api/recommend",
		listField: "recommendations",
		payload: func(q Query) map[string]string {
			return map[string]string{
				"userId": strings.TrimSpace(q.UserID),
				"movie":  strings.TrimSpace(q.MovieTitle),
			}
		},
	},
	ModeGenre: {
		method:    http.MethodPost,
		path:      "/api/top_by_genre",
		listField: "top_movies",
		payload: func(q Query) map[string]string {
			return map[string]string{"genre": strings.TrimSpace(q.Genre)}
		},
	},
	ModeActor: {
		method:    http.MethodPost,
		path:      "/api/top_by_actor",
		listField: "top_movies",
		payload: func(q Query) map[string]string {
			return map[string]string{"actor": foldName(q.Actor)}
		},
	},
	ModeDirector: {
		method:    http.MethodPost,
		path:      "/api/top_by_director",
		listField: "top_movies",
		payload: func(q Query) map[string]string {
			return map[string]string{"director": foldName(q.Director)}
		},
	},
}

// Dispatcher resolves a (mode, parameters) query against the remote
// recommendation service and normalizes its four response shapes into one
// movie list. It is stateless: nothing is cached between calls.
type Dispatcher struct {
	baseURL string
	client  *remote.Client
}

// NewDispatcher builds a dispatcher for the recommender at baseURL.
func NewDispatcher(baseURL string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  remote.NewClient(timeout),
	}
}

// Resolve maps the query to its endpoint, performs the call and extracts the
// mode's list field. An absent or null list field is a deliberate tolerance,
// not an error: it normalizes to an empty slice. Transport and decoding
// failures come back as typed remote errors for the caller to degrade.
func (d *Dispatcher) Resolve(ctx context.Context, q Query) ([]models.Movie, error) {
	spec, ok := modeTable[q.Mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, q.Mode)
	}

	var envelope struct {
		Recommendations []models.Movie `json:"recommendations"`
		TopMovies       []models.Movie `json:"top_movies"`
	}

	url := d.baseURL + spec.path
	var err error
	if spec.method == http.MethodGet {
		err = d.client.GetJSON(ctx, url, &envelope)
	} else {
		err = d.client.PostJSON(ctx, url, spec.payload(q), &envelope)
	}
	if err != nil {
		return nil, err
	}

	movies := envelope.TopMovies
	if spec.listField == "recommendations" {
		movies = envelope.Recommendations
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

// Similar fetches the similar-movies feed for a movie id. An absent field
// normalizes to an empty slice, matching Resolve's tolerance policy.
func (d *Dispatcher) Similar(ctx context.Context, movieID int64) ([]models.Movie, error) {
	var envelope struct {
		SimilarMovies []models.Movie `json:"similar_movies"`
	}
	url := fmt.Sprintf("%s/api/similar/%d", d.baseURL, movieID)
	if err := d.client.GetJSON(ctx, url, &envelope); err != nil {
		return nil, err
	}
	if envelope.SimilarMovies == nil {
		return []models.Movie{}, nil
	}
	return envelope.SimilarMovies, nil
}
