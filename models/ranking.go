package models

import "time"

const (
	// RankingMaxSize bounds the leaderboard; lower entries are evicted first
	RankingMaxSize = 20
	// PlayerNameMaxLength is counted in characters, not bytes
	PlayerNameMaxLength = 10
	// AnonymousName replaces a blank player name
	AnonymousName = "익명"
)

// RankingEntry is one submitted game on the leaderboard
type RankingEntry struct {
	ID          string    `json:"id"`
	PlayerName  string    `json:"playerName"`
	TotalPoints int       `json:"totalPoints"`
	RoundCount  int       `json:"roundCount"`
	Score       Tally     `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RankedBefore reports whether e sorts ahead of other: points descending,
// then most recent first
func (e RankingEntry) RankedBefore(other RankingEntry) bool {
	if e.TotalPoints != other.TotalPoints {
		return e.TotalPoints > other.TotalPoints
	}
	return e.CreatedAt.After(other.CreatedAt)
}
