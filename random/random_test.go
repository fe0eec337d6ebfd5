package random

import (
	"testing"

	"github.com/rps-game/api/models"
)

func TestNewSeedProducesDifferentValues(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct seeds, got %d twice", a)
	}
}

func TestChoiceSourceIsDeterministicPerSeed(t *testing.T) {
	first := NewChoiceSource(42)
	second := NewChoiceSource(42)
	for i := 0; i < 50; i++ {
		if a, b := first.Choose(), second.Choose(); a != b {
			t.Fatalf("draw %d differs: %s vs %s", i, a, b)
		}
	}
}

func TestChoiceSourceIsRoughlyUniform(t *testing.T) {
	src := NewChoiceSource(7)
	counts := map[models.Choice]int{}
	const draws = 30000
	for i := 0; i < draws; i++ {
		c := src.Choose()
		if !c.Valid() {
			t.Fatalf("invalid choice drawn: %d", c)
		}
		counts[c]++
	}
	for _, c := range models.Choices {
		share := float64(counts[c]) / draws
		if share < 0.30 || share > 0.37 {
			t.Fatalf("choice %s drawn with share %.3f", c, share)
		}
	}
}
