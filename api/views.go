package api

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rps-game/api/models"
	"github.com/rps-game/api/scoring"
)

// All display text is Korean regardless of the client's locale.
var printer = message.NewPrinter(language.Korean)

// dateLayout renders as e.g. "3월 14일 09:05"
const dateLayout = "1월 2일 15:04"

var medals = [...]string{"🥇", "🥈", "🥉"}

func medalFor(rank int) string {
	if rank < 1 || rank > len(medals) {
		return ""
	}
	return medals[rank-1]
}

func pointsLabel(points int) string {
	return printer.Sprintf("%d점", points)
}

type choiceView struct {
	Value models.Choice `json:"value"`
	Label string        `json:"label"`
	Emoji string        `json:"emoji"`
}

func newChoiceView(c models.Choice) choiceView {
	return choiceView{Value: c, Label: c.Label(), Emoji: c.Emoji()}
}

type roundView struct {
	PlayerChoice   choiceView     `json:"playerChoice"`
	ComputerChoice choiceView     `json:"computerChoice"`
	Result         models.Outcome `json:"result"`
	Message        string         `json:"message"`
	Points         int            `json:"points"`
}

type gradeView struct {
	Tier            scoring.Tier      `json:"tier"`
	Label           string            `json:"label"`
	Emoji           string            `json:"emoji"`
	AchievementRate int               `json:"achievementRate"`
	Breakdown       scoring.Breakdown `json:"breakdown"`
}

type gameView struct {
	Game               uint64       `json:"game"`
	Phase              models.Phase `json:"phase"`
	RoundCount         int          `json:"roundCount"`
	CurrentRoundNumber int          `json:"currentRoundNumber"`
	Score              models.Tally `json:"score"`
	TotalPoints        int          `json:"totalPoints"`
	TotalPointsLabel   string       `json:"totalPointsLabel"`
	MaxPoints          int          `json:"maxPoints"`
	IsAnimating        bool         `json:"isAnimating"`
	CurrentRound       *roundView   `json:"currentRound"`
	Result             *gradeView   `json:"result,omitempty"`
	Submitted          bool         `json:"submitted"`
}

func newGameView(state models.GameState, submitted bool) gameView {
	maxPoints := scoring.MaxPoints(state.RoundCount)
	view := gameView{
		Game:               state.Game,
		Phase:              state.Phase,
		RoundCount:         state.RoundCount,
		CurrentRoundNumber: state.CurrentRound,
		Score:              state.Score,
		TotalPoints:        state.TotalPoints,
		TotalPointsLabel:   pointsLabel(state.TotalPoints),
		MaxPoints:          maxPoints,
		IsAnimating:        state.Pending,
		Submitted:          submitted,
	}
	if last := state.LastRound; last != nil {
		view.CurrentRound = &roundView{
			PlayerChoice:   newChoiceView(last.PlayerChoice),
			ComputerChoice: newChoiceView(last.ComputerChoice),
			Result:         last.Outcome,
			Message:        last.Outcome.Message(),
			Points:         scoring.PointsFor(last.Outcome),
		}
	}
	if state.Phase == models.PhaseFinished {
		tier := scoring.Grade(state.TotalPoints, maxPoints)
		view.Result = &gradeView{
			Tier:            tier,
			Label:           tier.Label(),
			Emoji:           tier.Emoji(),
			AchievementRate: scoring.AchievementRate(state.TotalPoints, maxPoints),
			Breakdown:       scoring.BreakdownOf(state.Score),
		}
	}
	return view
}

type roundOptionView struct {
	RoundCount int  `json:"roundCount"`
	MaxPoints  int  `json:"maxPoints"`
	Default    bool `json:"default"`
}

type outcomeGuideView struct {
	Result  models.Outcome `json:"result"`
	Points  int            `json:"points"`
	Message string         `json:"message"`
}

type gradeGuideView struct {
	Tier      scoring.Tier `json:"tier"`
	Label     string       `json:"label"`
	Emoji     string       `json:"emoji"`
	Threshold int          `json:"threshold"`
}

type optionsView struct {
	RoundCounts []roundOptionView  `json:"roundCounts"`
	Choices     []choiceView       `json:"choices"`
	Scoring     []outcomeGuideView `json:"scoring"`
	Grades      []gradeGuideView   `json:"grades"`
}

func newOptionsView() optionsView {
	var view optionsView
	for _, n := range models.RoundCountOptions {
		view.RoundCounts = append(view.RoundCounts, roundOptionView{
			RoundCount: n,
			MaxPoints:  scoring.MaxPoints(n),
			Default:    n == models.DefaultRoundCount,
		})
	}
	for _, c := range models.Choices {
		view.Choices = append(view.Choices, newChoiceView(c))
	}
	for _, o := range models.Outcomes {
		view.Scoring = append(view.Scoring, outcomeGuideView{
			Result:  o,
			Points:  scoring.PointsFor(o),
			Message: o.Message(),
		})
	}
	for _, t := range scoring.Tiers {
		view.Grades = append(view.Grades, gradeGuideView{
			Tier:      t,
			Label:     t.Label(),
			Emoji:     t.Emoji(),
			Threshold: t.Threshold(),
		})
	}
	return view
}

type rankingView struct {
	Rank        int          `json:"rank"`
	Medal       string       `json:"medal,omitempty"`
	ID          string       `json:"id"`
	PlayerName  string       `json:"playerName"`
	TotalPoints int          `json:"totalPoints"`
	PointsLabel string       `json:"pointsLabel"`
	RoundCount  int          `json:"roundCount"`
	Score       models.Tally `json:"score"`
	CreatedAt   time.Time    `json:"createdAt"`
	Date        string       `json:"date"`
	Highlight   bool         `json:"highlight"`
}

func newRankingViews(entries []models.RankingEntry, highlight string, loc *time.Location) []rankingView {
	views := make([]rankingView, 0, len(entries))
	for i, e := range entries {
		rank := i + 1
		views = append(views, rankingView{
			Rank:        rank,
			Medal:       medalFor(rank),
			ID:          e.ID,
			PlayerName:  e.PlayerName,
			TotalPoints: e.TotalPoints,
			PointsLabel: pointsLabel(e.TotalPoints),
			RoundCount:  e.RoundCount,
			Score:       e.Score,
			CreatedAt:   e.CreatedAt,
			Date:        e.CreatedAt.In(loc).Format(dateLayout),
			Highlight:   highlight != "" && e.ID == highlight,
		})
	}
	return views
}
