// Package scoring holds the pure round, point and grade rules.
package scoring

import (
	"math"

	"github.com/rps-game/api/models"
)

// Judge decides a round from the player's side.
func Judge(player, computer models.Choice) models.Outcome {
	switch {
	case player == computer:
		return models.Draw
	case player.Beats(computer):
		return models.Win
	default:
		return models.Lose
	}
}

// PointsFor returns the points earned for an outcome.
func PointsFor(outcome models.Outcome) int {
	return outcome.Points()
}

// MaxPoints is the score of a game won in every round.
func MaxPoints(roundCount int) int {
	if roundCount <= 0 {
		return 0
	}
	return roundCount * models.Win.Points()
}

// AchievementRate returns points/max as a whole percentage, rounded to nearest.
func AchievementRate(points, maxPoints int) int {
	if maxPoints <= 0 {
		return 0
	}
	return int(math.Round(float64(points) / float64(maxPoints) * 100))
}

// Breakdown is the points contributed by each outcome of a tally.
type Breakdown struct {
	Win  int `json:"win"`
	Lose int `json:"lose"`
	Draw int `json:"draw"`
}

func BreakdownOf(t models.Tally) Breakdown {
	return Breakdown{
		Win:  t.Win * PointsFor(models.Win),
		Lose: t.Lose * PointsFor(models.Lose),
		Draw: t.Draw * PointsFor(models.Draw),
	}
}
