package models

import (
	"errors"
	"fmt"
	"strings"
)

// Phase governs which game operations are valid
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlaying
	PhaseFinished

	numPhases
)

var phaseNames = [...]string{
	PhaseSetup:    "setup",
	PhasePlaying:  "playing",
	PhaseFinished: "finished",
}

var _ = [1]struct{}{}[len(phaseNames)-int(numPhases)]

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || p >= numPhases {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	value := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range phaseNames {
		if name == value {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", value)
}

var ErrInvalidRoundCount = errors.New("round count must be one of 3, 5 or 10")

// RoundCountOptions are the only game lengths a player can pick
var RoundCountOptions = []int{3, 5, 10}

// DefaultRoundCount is preselected on the setup screen
const DefaultRoundCount = 5

// ValidRoundCount reports whether n is an allowed game length
func ValidRoundCount(n int) bool {
	for _, option := range RoundCountOptions {
		if n == option {
			return true
		}
	}
	return false
}

// ParseRoundCount validates a requested game length at the boundary
func ParseRoundCount(n int) (int, error) {
	if !ValidRoundCount(n) {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRoundCount, n)
	}
	return n, nil
}

// Tally counts completed rounds per outcome
type Tally struct {
	Win  int `json:"win"`
	Lose int `json:"lose"`
	Draw int `json:"draw"`
}

// Add returns the tally with one more round of the given outcome
func (t Tally) Add(o Outcome) Tally {
	switch o {
	case Win:
		t.Win++
	case Lose:
		t.Lose++
	case Draw:
		t.Draw++
	}
	return t
}

func (t Tally) Total() int {
	return t.Win + t.Lose + t.Draw
}

// Points replays the tally through the point table
func (t Tally) Points() int {
	return t.Win*Win.Points() + t.Lose*Lose.Points() + t.Draw*Draw.Points()
}

// RoundRecord is the result of the most recently completed round
type RoundRecord struct {
	PlayerChoice   Choice  `json:"playerChoice"`
	ComputerChoice Choice  `json:"computerChoice"`
	Outcome        Outcome `json:"result"`
}

// GameState is a point-in-time copy of a play session
type GameState struct {
	Game         uint64       `json:"game"`
	Phase        Phase        `json:"phase"`
	RoundCount   int          `json:"roundCount"`
	CurrentRound int          `json:"currentRoundNumber"`
	Score        Tally        `json:"score"`
	TotalPoints  int          `json:"totalPoints"`
	LastRound    *RoundRecord `json:"currentRound"`
	Pending      bool         `json:"isAnimating"`
}
