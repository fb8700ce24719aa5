package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"flickpick/models"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const watchlistFile = "watchlist.json"

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrMovieIDRequired    = errors.New("movie id is required")
)

// ChangeKind names what a mutating call actually did.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
)

// Outcome reports the observable effect of Add or Remove. The presentation
// layer decides whether to show a toast; Changed=false means the call was an
// idempotent no-op and nothing should be announced.
type Outcome struct {
	EventID string     `json:"eventId,omitempty"`
	Changed bool       `json:"changed"`
	Kind    ChangeKind `json:"kind,omitempty"`
	MovieID int64      `json:"movieId"`
	Title   string     `json:"title,omitempty"`
}

// Service owns the durable, deduplicated watch-list. The in-memory sequence
// and the on-disk snapshot agree after every mutating call returns; insertion
// order is the display order.
type Service struct {
	mu    sync.Mutex
	fs    afero.Fs
	path  string
	items []models.WatchlistItem
	index map[int64]struct{}
}

// NewService loads the durable snapshot from dir. A missing or corrupt file
// yields an empty list, never an error.
func NewService(fs afero.Fs, dir string) (*Service, error) {
	if dir == "" {
		return nil, ErrStorageDirRequired
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	s := &Service{
		fs:    fs,
		path:  filepath.Join(dir, watchlistFile),
		index: make(map[int64]struct{}),
	}
	s.load()
	return s, nil
}

func (s *Service) load() {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[watchlist] failed to read %s: %v", s.path, err)
		}
		return
	}

	var items []models.WatchlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[watchlist] corrupt snapshot at %s, starting empty: %v", s.path, err)
		return
	}

	for _, item := range items {
		if _, dup := s.index[item.MovieID]; dup {
			continue
		}
		s.items = append(s.items, item)
		s.index[item.MovieID] = struct{}{}
	}
}

// List returns a copy of the saved items in insertion order.
func (s *Service) List() []models.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WatchlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of saved items.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Contains reports membership without side effects.
func (s *Service) Contains(movieID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[movieID]
	return ok
}

// Add appends item to the end of the list and writes through to disk before
// returning. Adding an id that is already present is a no-op.
func (s *Service) Add(item models.WatchlistItem) (Outcome, error) {
	if item.MovieID <= 0 {
		return Outcome{}, ErrMovieIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[item.MovieID]; ok {
		return Outcome{MovieID: item.MovieID}, nil
	}

	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	s.items = append(s.items, item)
	s.index[item.MovieID] = struct{}{}

	if err := s.persistLocked(); err != nil {
		s.items = s.items[:len(s.items)-1]
		delete(s.index, item.MovieID)
		return Outcome{}, fmt.Errorf("persist watchlist: %w", err)
	}

	return Outcome{
		EventID: uuid.NewString(),
		Changed: true,
		Kind:    ChangeAdded,
		MovieID: item.MovieID,
		Title:   item.Title,
	}, nil
}

// Remove deletes the entry for movieID and writes through. Removing an absent
// id is a no-op and reports Changed=false so no notification is emitted.
func (s *Service) Remove(movieID int64) (Outcome, error) {
	if movieID <= 0 {
		return Outcome{}, ErrMovieIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, item := range s.items {
		if item.MovieID == movieID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Outcome{MovieID: movieID}, nil
	}

	removed := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	delete(s.index, movieID)

	if err := s.persistLocked(); err != nil {
		restored := make([]models.WatchlistItem, 0, len(s.items)+1)
		restored = append(restored, s.items[:idx]...)
		restored = append(restored, removed)
		restored = append(restored, s.items[idx:]...)
		s.items = restored
		s.index[movieID] = struct{}{}
		return Outcome{}, fmt.Errorf("persist watchlist: %w", err)
	}

	return Outcome{
		EventID: uuid.NewString(),
		Changed: true,
		Kind:    ChangeRemoved,
		MovieID: movieID,
		Title:   removed.Title,
	}, nil
}

// persistLocked writes the full sequence via tmp+rename so a crash mid-write
// never leaves a truncated snapshot. Callers must hold s.mu.
func (s *Service) persistLocked() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return err
	}
	if s.items == nil {
		data = []byte("[]")
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		// Some backends refuse to clobber the destination.
		_ = s.fs.Remove(s.path)
		return s.fs.Rename(tmp, s.path)
	}
	return nil
}
