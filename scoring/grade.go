package scoring

import (
	"fmt"
)

// Tier is an achievement grade, ordered from lowest to highest.
type Tier int

const (
	Bronze Tier = iota
	Silver
	Gold
	Diamond
	Legend

	numTiers
)

type tierInfo struct {
	name     string
	label    string
	emoji    string
	minRatio int
}

var tiers = [...]tierInfo{
	Bronze:  {name: "bronze", label: "브론즈", emoji: "🥉", minRatio: 0},
	Silver:  {name: "silver", label: "실버", emoji: "🥈", minRatio: 30},
	Gold:    {name: "gold", label: "골드", emoji: "🥇", minRatio: 50},
	Diamond: {name: "diamond", label: "다이아", emoji: "💎", minRatio: 70},
	Legend:  {name: "legend", label: "전설", emoji: "👑", minRatio: 90},
}

var _ = [1]struct{}{}[len(tiers)-int(numTiers)]

// Tiers lists every tier from highest to lowest, the order a grading guide shows them.
var Tiers = [numTiers]Tier{Legend, Diamond, Gold, Silver, Bronze}

func (t Tier) valid() bool {
	return t >= 0 && t < numTiers
}

func (t Tier) String() string {
	if !t.valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tiers[t].name
}

func (t Tier) Label() string {
	if !t.valid() {
		return ""
	}
	return tiers[t].label
}

func (t Tier) Emoji() string {
	if !t.valid() {
		return ""
	}
	return tiers[t].emoji
}

// Threshold is the inclusive lower bound of the tier's achievement rate.
func (t Tier) Threshold() int {
	if !t.valid() {
		return 0
	}
	return tiers[t].minRatio
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("unknown tier %d", int(t))
	}
	return []byte(tiers[t].name), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	for i := range tiers {
		if tiers[i].name == string(text) {
			*t = Tier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", text)
}

// TierFor maps a whole-percentage achievement rate to its tier.
func TierFor(rate int) Tier {
	for t := numTiers - 1; t > Bronze; t-- {
		if rate >= tiers[t].minRatio {
			return t
		}
	}
	return Bronze
}

// Grade rates a finished game.
func Grade(achievedPoints, maxPoints int) Tier {
	return TierFor(AchievementRate(achievedPoints, maxPoints))
}
