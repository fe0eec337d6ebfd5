// Package ranking keeps the bounded, ordered leaderboard of submitted games.
//
// The collection is loaded from a RankingRepository once, kept in memory and
// rewritten in full after every mutation. Storage faults never reach callers:
// a failed load starts from an empty board, and a failed write leaves the
// in-memory board updated but unsaved.
package ranking

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/unicode/norm"

	"github.com/rps-game/api/datastore"
	"github.com/rps-game/api/models"
	"github.com/rps-game/api/telemetry"
)

// Store owns the leaderboard.
type Store struct {
	mu      sync.RWMutex
	entries []models.RankingEntry

	repo  datastore.RankingRepository
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

// WithClock sets the clock used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets how entry ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore loads the persisted leaderboard from repo.
func NewStore(repo datastore.RankingRepository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		now:   time.Now,
		newID: newEntryID,
	}
	for _, opt := range opts {
		opt(s)
	}

	entries, err := repo.Load()
	if err != nil {
		log.Printf("Error loading rankings, starting empty: %v", err)
		entries = nil
	}
	s.entries = order(entries)
	log.Printf("Loaded %d ranking entries", len(s.entries))
	return s
}

// newEntryID returns a UUIDv7: a millisecond timestamp followed by random bits.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// order sorts entries by rank and drops everything past the size bound.
func order(entries []models.RankingEntry) []models.RankingEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RankedBefore(entries[j])
	})
	if len(entries) > models.RankingMaxSize {
		entries = entries[:models.RankingMaxSize]
	}
	return entries
}

// Add records a finished game and returns the new entry's id. The entry may
// be evicted immediately if it ranks below a full board.
func (s *Store) Add(name string, points, roundCount int, tally models.Tally) string {
	_, span := telemetry.Tracer().Start(context.Background(), "ranking.add")
	defer span.End()

	entry := models.RankingEntry{
		ID:          s.newID(),
		PlayerName:  NormalizeName(name),
		TotalPoints: points,
		RoundCount:  roundCount,
		Score:       tally,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	s.mu.Lock()
	// New entries go in front so a stable sort keeps them ahead of exact ties.
	next := make([]models.RankingEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	next = append(next, s.entries...)
	s.entries = order(next)
	snapshot := s.copyLocked()
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("ranking.id", entry.ID),
		attribute.Int("ranking.points", points),
		attribute.Int("ranking.size", len(snapshot)),
	)
	log.Printf("Ranking entry %s added for %q with %d points", entry.ID, entry.PlayerName, points)

	if err := s.repo.Save(snapshot); err != nil {
		span.SetAttributes(attribute.Bool("ranking.persisted", false))
		log.Printf("Error saving rankings: %v", err)
	}
	return entry.ID
}

// Clear empties the leaderboard and erases its persisted copy.
func (s *Store) Clear() {
	_, span := telemetry.Tracer().Start(context.Background(), "ranking.clear")
	defer span.End()

	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	log.Println("Rankings cleared")
	if err := s.repo.Clear(); err != nil {
		span.SetAttributes(attribute.Bool("ranking.persisted", false))
		log.Printf("Error clearing stored rankings: %v", err)
	}
}

// Query returns the leaderboard in rank order. The slice is a copy.
func (s *Store) Query() []models.RankingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// RankOf returns the 1-based position of id, or false if it is not on the board.
func (s *Store) RankOf(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, e := range s.entries {
		if e.ID == id {
			return i + 1, true
		}
	}
	return 0, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) copyLocked() []models.RankingEntry {
	out := make([]models.RankingEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// NormalizeName canonicalises a submitted player name: NFC form, surrounding
// whitespace trimmed, at most PlayerNameMaxLength characters. A blank name
// becomes AnonymousName.
func NormalizeName(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	runes := []rune(name)
	if len(runes) > models.PlayerNameMaxLength {
		name = strings.TrimRightFunc(string(runes[:models.PlayerNameMaxLength]), unicode.IsSpace)
	}
	if name == "" {
		return models.AnonymousName
	}
	return name
}
