package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"flickpick/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestDispatcher(rt roundTripFunc) *Dispatcher {
	return &Dispatcher{
		baseURL: "http://rec.local",
		client: remote.NewClient(time.Second).
			WithHTTPClient(&http.Client{Transport: rt}).
			WithAttempts(1),
	}
}

func jsonBody(s string) io.ReadCloser { return io.NopCloser(strings.NewReader(s)) }

func TestResolvePersonalizedReadsRecommendations(t *testing.T) {
	var gotMethod, gotPath string
	var gotPayload map[string]string

	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		gotMethod = req.Method
		gotPath = req.URL.Path
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotPayload))
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       jsonBody(`{"recommendations":[{"movieId":1,"title":"A"},{"movieId":2,"title":"B"}]}`),
		}, nil
	})

	movies, err := d.Resolve(context.Background(), Query{
		Mode:       ModePersonalized,
		UserID:     "7",
		MovieTitle: "  Heat ",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/recommend", gotPath)
	assert.Equal(t, map[string]string{"userId": "7", "movie": "Heat"}, gotPayload)
	require.Len(t, movies, 2)
	assert.Equal(t, "A", movies[0].Title)
	assert.Equal(t, "B", movies[1].Title)
}

func TestResolveGenreReadsTopMovies(t *testing.T) {
	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/top_by_genre", req.URL.Path)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       jsonBody(`{"genre":"Drama","top_movies":[{"movieId":3,"title":"C"}]}`),
		}, nil
	})

	movies, err := d.Resolve(context.Background(), Query{Mode: ModeGenre, Genre: "Drama"})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, int64(3), movies[0].MovieID)
}

func TestResolveTrendingUsesGet(t *testing.T) {
	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, req.Method)
		require.Equal(t, "/api/trending", req.URL.Path)
		require.Nil(t, req.Body)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       jsonBody(`{"top_movies":[{"movieId":10,"title":"Hot"}]}`),
		}, nil
	})

	movies, err := d.Resolve(context.Background(), Query{Mode: ModeTrending})
	require.NoError(t, err)
	require.Len(t, movies, 1)
}

func TestResolveMissingListFieldYieldsEmpty(t *testing.T) {
	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       jsonBody(`{"genre":"Noir"}`),
		}, nil
	})

	movies, err := d.Resolve(context.Background(), Query{Mode: ModeGenre, Genre: "Noir"})
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestResolveUnknownModeRejectedLocally(t *testing.T) {
	called := false
	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("should not be reached")
	})

	_, err := d.Resolve(context.Background(), Query{Mode: "surprise"})
	require.ErrorIs(t, err, ErrUnknownMode)
	assert.False(t, called, "unknown mode must not hit the network")
}

func TestResolveActorFoldsDiacritics(t *testing.T) {
	var gotPayload map[string]string
	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotPayload))
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       jsonBody(`{"top_movies":[]}`),
		}, nil
	})

	_, err := d.Resolve(context.Background(), Query{Mode: ModeDirector, Director: " Pedro Almodóvar "})
	require.NoError(t, err)
	assert.Equal(t, "Pedro Almodovar", gotPayload["director"])
}

func TestResolveTransportFailureIsTyped(t *testing.T) {
	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := d.Resolve(context.Background(), Query{Mode: ModeTrending})
	require.Error(t, err)
	assert.True(t, remote.IsTransport(err))
}

func TestSimilarNormalizesMissingField(t *testing.T) {
	d := newTestDispatcher(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/similar/42", req.URL.Path)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       jsonBody(`{}`),
		}, nil
	})

	movies, err := d.Similar(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}
