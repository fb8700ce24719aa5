package models

// Movie is the normalized card-level representation returned by every
// recommendation mode and by the similar-movies feed. Fields beyond the id and
// title are best-effort: the recommender omits what it does not know.
type Movie struct {
	MovieID     int64   `json:"movieId"`
	Title       string  `json:"title"`
	Poster      string  `json:"poster,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Synopsis    string  `json:"synopsis,omitempty"`
}

// Genre is a single genre entry as TMDB returns it.
type Genre struct {
	Name string `json:"name"`
}

// MovieDetails is the extended per-title metadata fetched from TMDB for the
// details page.
type MovieDetails struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Tagline     string  `json:"tagline,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Poster      string  `json:"poster,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Runtime     int     `json:"runtime,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
	Genres      []Genre `json:"genres,omitempty"`
}

// GenreNames flattens the genre list for display.
func (d *MovieDetails) GenreNames() []string {
	if d == nil || len(d.Genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// DetailBundle is the combined details-page payload assembled from three
// independent sources. TrailerKey is empty when no YouTube trailer exists and
// SimilarMovies is empty (never nil in responses) when the similar feed fails.
type DetailBundle struct {
	Metadata      *MovieDetails `json:"metadata"`
	TrailerKey    string        `json:"trailerKey,omitempty"`
	SimilarMovies []Movie       `json:"similarMovies"`
}
