// Package game runs the round-based state machine of a single play session.
//
// A session moves setup -> playing -> finished. Submitting a choice marks the
// session busy and schedules the round's resolution after a fixed delay;
// while busy, further submissions are ignored. Start and Reset are valid from
// any phase.
package game

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rps-game/api/models"
	"github.com/rps-game/api/random"
	"github.com/rps-game/api/scheduler"
	"github.com/rps-game/api/scoring"
	"github.com/rps-game/api/telemetry"
)

// DefaultResolveDelay is how long the computer "thinks" before a round resolves.
const DefaultResolveDelay = 800 * time.Millisecond

// ErrInvalidRoundCount is returned by Start for a length outside 3, 5 or 10.
var ErrInvalidRoundCount = models.ErrInvalidRoundCount

// Session owns the state of one play session.
type Session struct {
	mu         sync.Mutex
	state      models.GameState
	generation uint64

	source    random.ChoiceSource
	scheduler scheduler.Scheduler
	delay     time.Duration
	onResolve func(models.GameState)
}

// Option configures a Session.
type Option func(*Session)

// WithChoiceSource sets where the computer's choices come from.
func WithChoiceSource(src random.ChoiceSource) Option {
	return func(s *Session) { s.source = src }
}

// WithScheduler sets the scheduler used for delayed resolution.
func WithScheduler(sch scheduler.Scheduler) Option {
	return func(s *Session) { s.scheduler = sch }
}

// WithDelay overrides DefaultResolveDelay. Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithResolveHook registers fn to run after every committed round with the
// resulting state. fn runs outside the session lock.
func WithResolveHook(fn func(models.GameState)) Option {
	return func(s *Session) { s.onResolve = fn }
}

// NewSession returns a session in the setup phase.
func NewSession(opts ...Option) *Session {
	s := &Session{
		state: initialState(),
		delay: DefaultResolveDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scheduler == nil {
		s.scheduler = scheduler.NewScheduler()
	}
	if s.source == nil {
		seed, err := random.NewSeed()
		if err != nil {
			log.Printf("game: falling back to time seed: %v", err)
			seed = time.Now().UnixNano()
		}
		s.source = random.NewChoiceSource(seed)
	}
	return s
}

func initialState() models.GameState {
	return models.GameState{
		Phase:      models.PhaseSetup,
		RoundCount: models.DefaultRoundCount,
	}
}

// Start begins a new game of roundCount rounds, discarding any previous game
// and any resolution still in flight for it.
func (s *Session) Start(roundCount int) error {
	n, err := models.ParseRoundCount(roundCount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.generation++
	s.state = models.GameState{
		Game:         s.state.Game + 1,
		Phase:        models.PhasePlaying,
		RoundCount:   n,
		CurrentRound: 1,
	}
	game := s.state.Game
	s.mu.Unlock()

	log.Printf("game %d started with %d rounds", game, n)
	return nil
}

// SubmitChoice plays choice in the current round. It reports whether the
// submission was accepted; outside the playing phase, while a round is
// resolving, or for an invalid choice it does nothing and returns false.
func (s *Session) SubmitChoice(ctx context.Context, choice models.Choice) bool {
	if !choice.Valid() {
		return false
	}

	s.mu.Lock()
	if s.state.Phase != models.PhasePlaying || s.state.Pending {
		s.mu.Unlock()
		return false
	}
	s.state.Pending = true
	s.state.LastRound = nil
	generation := s.generation
	s.mu.Unlock()

	link := trace.LinkFromContext(ctx)
	s.scheduler.AfterFunc(s.delay, func() {
		s.resolve(generation, choice, link)
	})
	return true
}

func (s *Session) resolve(generation uint64, player models.Choice, link trace.Link) {
	_, span := telemetry.Tracer().Start(context.Background(), "game.resolve_round",
		trace.WithLinks(link),
	)
	defer span.End()

	s.mu.Lock()
	if generation != s.generation || !s.state.Pending {
		s.mu.Unlock()
		span.SetAttributes(attribute.Bool("game.superseded", true))
		log.Printf("game: dropped resolution for superseded game")
		return
	}

	computer := s.source.Choose()
	outcome := scoring.Judge(player, computer)
	record := models.RoundRecord{
		PlayerChoice:   player,
		ComputerChoice: computer,
		Outcome:        outcome,
	}

	round := s.state.CurrentRound
	lastRound := round >= s.state.RoundCount
	s.state.Score = s.state.Score.Add(outcome)
	s.state.TotalPoints += scoring.PointsFor(outcome)
	s.state.CurrentRound++
	s.state.LastRound = &record
	s.state.Pending = false
	if lastRound {
		s.state.Phase = models.PhaseFinished
	}
	snapshot := s.snapshotLocked()
	hook := s.onResolve
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int("game.number", int(snapshot.Game)),
		attribute.Int("game.round", round),
		attribute.String("game.player_choice", player.String()),
		attribute.String("game.computer_choice", computer.String()),
		attribute.String("game.outcome", outcome.String()),
		attribute.Int("game.total_points", snapshot.TotalPoints),
	)
	log.Printf("game %d round %d: %s vs %s -> %s (%d pts)",
		snapshot.Game, round, player, computer, outcome, snapshot.TotalPoints)

	if hook != nil {
		hook(snapshot)
	}
}

// Reset returns to the setup phase with all counters cleared.
func (s *Session) Reset() {
	s.mu.Lock()
	s.generation++
	game := s.state.Game
	s.state = initialState()
	s.state.Game = game
	s.mu.Unlock()
}

// State returns a copy of the current session state.
func (s *Session) State() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.GameState {
	state := s.state
	if state.LastRound != nil {
		record := *state.LastRound
		state.LastRound = &record
	}
	return state
}

func (s *Session) Phase() models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase
}

func (s *Session) RoundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RoundCount
}

// CurrentRound is the 1-based index of the round being played; it is one past
// RoundCount once the game has finished.
func (s *Session) CurrentRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentRound
}

func (s *Session) Tally() models.Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Score
}

func (s *Session) TotalPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalPoints
}

// LastRound returns the most recently completed round, if any.
func (s *Session) LastRound() (models.RoundRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.LastRound == nil {
		return models.RoundRecord{}, false
	}
	return *s.state.LastRound, true
}

// Pending reports whether a round is waiting to resolve.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Pending
}

func (s *Session) Delay() time.Duration {
	return s.delay
}
