package details

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"flickpick/internal/remote"
	"flickpick/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type fakeSimilar struct {
	mu     sync.Mutex
	movies []models.Movie
	err    error
	calls  int
}

func (f *fakeSimilar) Similar(_ context.Context, _ int64) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.movies, f.err
}

func jsonOK(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func status(code int) *http.Response {
	return &http.Response{StatusCode: code, Header: make(http.Header), Body: http.NoBody}
}

func newTestAggregator(rt roundTripFunc, similar SimilarSource) *Aggregator {
	client := remote.NewClient(time.Second).
		WithHTTPClient(&http.Client{Transport: rt}).
		WithAttempts(1)
	return &Aggregator{
		tmdb:    newTMDBClient("http://tmdb.local/3", "k", "en", client),
		similar: similar,
	}
}

const metadataBody = `{"id":11,"title":"Star Wars","tagline":"A long time ago...","overview":"Rebels.","poster_path":"/sw.jpg","release_date":"1977-05-25","runtime":121,"vote_average":8.2,"genres":[{"name":"Adventure"},{"name":"Science Fiction"}]}`

func TestLoadAssemblesBundle(t *testing.T) {
	rt := func(req *http.Request) (*http.Response, error) {
		switch {
		case req.URL.Path == "/3/movie/11":
			return jsonOK(metadataBody), nil
		case req.URL.Path == "/3/movie/11/videos":
			return jsonOK(`{"results":[{"type":"Teaser","site":"YouTube","key":"x"},{"type":"Trailer","site":"Vimeo","key":"v"},{"type":"Trailer","site":"YouTube","key":"y"}]}`), nil
		}
		return status(http.StatusNotFound), nil
	}
	similar := &fakeSimilar{movies: []models.Movie{{MovieID: 12, Title: "Empire"}}}

	agg := newTestAggregator(rt, similar)
	bundle, err := agg.Load(context.Background(), 11)
	require.NoError(t, err)

	require.NotNil(t, bundle.Metadata)
	assert.Equal(t, "Star Wars", bundle.Metadata.Title)
	assert.Equal(t, 121, bundle.Metadata.Runtime)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/sw.jpg", bundle.Metadata.Poster)
	assert.Equal(t, []string{"Adventure", "Science Fiction"}, bundle.Metadata.GenreNames())

	// First YouTube trailer in list order, skipping teasers and other sites.
	assert.Equal(t, "y", bundle.TrailerKey)

	require.Len(t, bundle.SimilarMovies, 1)
	assert.Equal(t, "Empire", bundle.SimilarMovies[0].Title)
}

func TestLoadMetadataFailureIsFatal(t *testing.T) {
	rt := func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/3/movie/11" {
			return status(http.StatusNotFound), nil
		}
		return jsonOK(`{"results":[]}`), nil
	}

	agg := newTestAggregator(rt, &fakeSimilar{movies: []models.Movie{}})
	_, err := agg.Load(context.Background(), 11)
	require.Error(t, err)
	assert.True(t, remote.IsNotFound(err))
}

func TestLoadTrailerFailureIsNotFatal(t *testing.T) {
	rt := func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/3/movie/11":
			return jsonOK(metadataBody), nil
		case "/3/movie/11/videos":
			return status(http.StatusInternalServerError), nil
		}
		return status(http.StatusNotFound), nil
	}

	agg := newTestAggregator(rt, &fakeSimilar{movies: []models.Movie{}})
	bundle, err := agg.Load(context.Background(), 11)
	require.NoError(t, err)
	assert.Empty(t, bundle.TrailerKey)
	require.NotNil(t, bundle.Metadata)
}

func TestLoadSimilarFailureDegradesToEmpty(t *testing.T) {
	rt := func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/3/movie/11":
			return jsonOK(metadataBody), nil
		case "/3/movie/11/videos":
			return jsonOK(`{"results":[]}`), nil
		}
		return status(http.StatusNotFound), nil
	}

	agg := newTestAggregator(rt, &fakeSimilar{err: errors.New("recommender down")})
	bundle, err := agg.Load(context.Background(), 11)
	require.NoError(t, err)
	assert.NotNil(t, bundle.SimilarMovies)
	assert.Empty(t, bundle.SimilarMovies)
}

func TestLoadStaleResultIsDiscarded(t *testing.T) {
	firstSeen := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	rt := func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/3/movie/1":
			once.Do(func() { close(firstSeen) })
			<-release // hold the old selection's metadata fetch in flight
			return jsonOK(`{"id":1,"title":"Old Selection"}`), nil
		case "/3/movie/1/videos", "/3/movie/2/videos":
			return jsonOK(`{"results":[]}`), nil
		case "/3/movie/2":
			return jsonOK(`{"id":2,"title":"New Selection"}`), nil
		}
		return status(http.StatusNotFound), nil
	}

	agg := newTestAggregator(rt, &fakeSimilar{movies: []models.Movie{}})

	type result struct {
		bundle models.DetailBundle
		err    error
	}
	firstDone := make(chan result, 1)
	go func() {
		b, err := agg.Load(context.Background(), 1)
		firstDone <- result{b, err}
	}()

	<-firstSeen

	// A newer selection arrives while movie 1 is still loading.
	bundle, err := agg.Load(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, bundle.Metadata)
	assert.Equal(t, "New Selection", bundle.Metadata.Title)

	close(release)
	first := <-firstDone
	require.ErrorIs(t, first.err, ErrSuperseded)
	assert.Nil(t, first.bundle.Metadata, "stale bundle must not carry data")
}
