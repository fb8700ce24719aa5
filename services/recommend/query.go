package recommend

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Mode is the user-selected recommendation strategy. The set is closed; the
// dispatch table in dispatcher.go is keyed by it and an unknown mode is
// rejected before any network call.
type Mode string

const (
	ModeTrending     Mode = "trending"
	ModePersonalized Mode = "personalized"
	ModeGenre        Mode = "genre"
	ModeActor        Mode = "actor"
	ModeDirector     Mode = "director"
)

// Query carries a mode and the parameters it needs. Only the fields for the
// selected mode are read; the rest are ignored. UserID stays a string and is
// sent verbatim: the recommender is the authority on what it accepts, and the
// original leaves non-numeric input undefined.
type Query struct {
	Mode       Mode
	UserID     string
	MovieTitle string
	Genre      string
	Actor      string
	Director   string
}

// foldName trims and ASCII-folds a person name. The recommender matches
// actors and directors on loose lowercase keys, so "Pedro Almodóvar" must
// reach it as "Pedro Almodovar".
func foldName(name string) string {
	return unidecode.Unidecode(strings.TrimSpace(name))
}
