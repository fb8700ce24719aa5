package details

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"flickpick/internal/remote"
	"flickpick/models"
)

const (
	tmdbAPIBaseURL   = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"

	trailerType = "Trailer"
	trailerSite = "YouTube"
)

type tmdbClient struct {
	baseURL  string
	apiKey   string
	language string
	client   *remote.Client
}

func newTMDBClient(baseURL, apiKey, language string, client *remote.Client) *tmdbClient {
	if baseURL == "" {
		baseURL = tmdbAPIBaseURL
	}
	return &tmdbClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: normalizeLanguage(language),
		client:   client,
	}
}

func (c *tmdbClient) movieDetails(ctx context.Context, movieID int64) (*models.MovieDetails, error) {
	var details models.MovieDetails
	if err := c.client.GetJSON(ctx, c.movieURL(movieID, ""), &details); err != nil {
		return nil, err
	}
	details.Poster = posterURL(details.PosterPath)
	return &details, nil
}

type tmdbVideo struct {
	Type string `json:"type"`
	Site string `json:"site"`
	Key  string `json:"key"`
}

func (c *tmdbClient) movieVideos(ctx context.Context, movieID int64) ([]tmdbVideo, error) {
	var envelope struct {
		Results []tmdbVideo `json:"results"`
	}
	if err := c.client.GetJSON(ctx, c.movieURL(movieID, "/videos"), &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

func (c *tmdbClient) movieURL(movieID int64, suffix string) string {
	return fmt.Sprintf("%s/movie/%d%s?api_key=%s&language=%s",
		c.baseURL, movieID, suffix, url.QueryEscape(c.apiKey), url.QueryEscape(c.language))
}

// firstTrailerKey returns the key of the first video that is a YouTube
// trailer, in list order. Teasers, clips and off-platform videos are skipped.
func firstTrailerKey(videos []tmdbVideo) string {
	for _, v := range videos {
		if v.Type == trailerType && v.Site == trailerSite {
			return v.Key
		}
	}
	return ""
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + path
}

// normalizeLanguage coerces loose language inputs ("en", "pt_br") into the
// ll-RR form TMDB expects, defaulting the region to US.
func normalizeLanguage(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return "en-US"
	}
	parts := strings.SplitN(lang, "-", 2)
	code := strings.ToLower(parts[0])
	region := "US"
	if len(parts) == 2 && parts[1] != "" {
		region = strings.ToUpper(parts[1])
	}
	return code + "-" + region
}
