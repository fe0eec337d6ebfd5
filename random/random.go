// Package random supplies the computer's choice for each round.
//
// Seeds come from crypto/rand; the per-round draw uses a seeded
// math/rand generator so tests and replays can pin the sequence.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rps-game/api/models"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ChoiceSource draws one choice per round.
type ChoiceSource interface {
	Choose() models.Choice
}

// UniformSource picks each choice with probability 1/3.
type UniformSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewChoiceSource returns a uniform source seeded with seed.
func NewChoiceSource(seed int64) *UniformSource {
	return &UniformSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *UniformSource) Choose() models.Choice {
	s.mu.Lock()
	idx := s.rng.Intn(len(models.Choices))
	s.mu.Unlock()
	return models.Choices[idx]
}
