package models

import (
	"errors"
	"fmt"
	"strings"
)

// Choice represents one of the three hands a player can throw
type Choice int

const (
	Rock Choice = iota
	Paper
	Scissors

	numChoices
)

var ErrUnknownChoice = errors.New("unknown choice")

// Choices lists every choice in the order the board shows them
var Choices = [numChoices]Choice{Scissors, Rock, Paper}

var choiceNames = [...]string{
	Rock:     "rock",
	Paper:    "paper",
	Scissors: "scissors",
}

var choiceLabels = [...]string{
	Rock:     "바위",
	Paper:    "보",
	Scissors: "가위",
}

var choiceEmoji = [...]string{
	Rock:     "✊",
	Paper:    "🖐️",
	Scissors: "✌️",
}

// beats maps each choice to the one it defeats
var beats = [...]Choice{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Every table must have exactly one slot per choice.
var (
	_ = [1]struct{}{}[len(choiceNames)-int(numChoices)]
	_ = [1]struct{}{}[len(choiceLabels)-int(numChoices)]
	_ = [1]struct{}{}[len(choiceEmoji)-int(numChoices)]
	_ = [1]struct{}{}[len(beats)-int(numChoices)]
)

func (c Choice) Valid() bool {
	return c >= 0 && c < numChoices
}

func (c Choice) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Choice(%d)", int(c))
	}
	return choiceNames[c]
}

// Label returns the display name shown on the board
func (c Choice) Label() string {
	if !c.Valid() {
		return ""
	}
	return choiceLabels[c]
}

func (c Choice) Emoji() string {
	if !c.Valid() {
		return ""
	}
	return choiceEmoji[c]
}

// Beats reports whether c defeats other
func (c Choice) Beats(other Choice) bool {
	if !c.Valid() || !other.Valid() {
		return false
	}
	return beats[c] == other
}

func (c Choice) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChoice, int(c))
	}
	return []byte(choiceNames[c]), nil
}

func (c *Choice) UnmarshalText(text []byte) error {
	parsed, err := ParseChoice(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChoice accepts the wire name of a choice, case-insensitively
func ParseChoice(value string) (Choice, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for c, name := range choiceNames {
		if name == value {
			return Choice(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChoice, value)
}
