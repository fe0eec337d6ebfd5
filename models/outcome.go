package models

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome is the result of a single round from the player's side
type Outcome int

const (
	Win Outcome = iota
	Lose
	Draw

	numOutcomes
)

var ErrUnknownOutcome = errors.New("unknown outcome")

var outcomeNames = [...]string{
	Win:  "win",
	Lose: "lose",
	Draw: "draw",
}

var outcomeMessages = [...]string{
	Win:  "승리! 🎉",
	Lose: "패배 😢",
	Draw: "무승부 🤝",
}

// outcomePoints is the fixed point table: win 3, draw 1, lose 0
var outcomePoints = [...]int{
	Win:  3,
	Lose: 0,
	Draw: 1,
}

var (
	_ = [1]struct{}{}[len(outcomeNames)-int(numOutcomes)]
	_ = [1]struct{}{}[len(outcomeMessages)-int(numOutcomes)]
	_ = [1]struct{}{}[len(outcomePoints)-int(numOutcomes)]
)

// Outcomes lists every outcome
var Outcomes = [numOutcomes]Outcome{Win, Draw, Lose}

func (o Outcome) Valid() bool {
	return o >= 0 && o < numOutcomes
}

func (o Outcome) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Message returns the banner shown after a round resolves
func (o Outcome) Message() string {
	if !o.Valid() {
		return ""
	}
	return outcomeMessages[o]
}

// Points returns the value of the outcome in the fixed point table
func (o Outcome) Points() int {
	if !o.Valid() {
		return 0
	}
	return outcomePoints[o]
}

func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcome, int(o))
	}
	return []byte(outcomeNames[o]), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	value := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range outcomeNames {
		if name == value {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownOutcome, value)
}
