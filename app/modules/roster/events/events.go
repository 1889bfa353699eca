package rosterevents

import (
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
)

// Roster event topics.
const (
	PlayerAddedTopic    = "roster.player.added"
	PlayerUpdatedTopic  = "roster.player.updated"
	ScoresComputedTopic = "roster.scores.computed"
	AwardsAppliedTopic  = "roster.awards.applied"
)

// Topics lists every topic the roster module publishes.
var Topics = []string{
	PlayerAddedTopic,
	PlayerUpdatedTopic,
	ScoresComputedTopic,
	AwardsAppliedTopic,
}

// PlayerPayload is published when a single record is added or updated.
type PlayerPayload struct {
	Player     rosterdomain.Player `json:"player"`
	Index      int                 `json:"index"`
	RosterSize int                 `json:"roster_size"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// ScoresPayload is published after a roster-wide scoring pass.
type ScoresPayload struct {
	Scores     []PlayerScore `json:"scores"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// PlayerScore is one entry of a ScoresPayload.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// NewScoresPayload summarizes the roster's scores in roster order.
func NewScoresPayload(roster rosterdomain.Roster, at time.Time) ScoresPayload {
	scores := make([]PlayerScore, len(roster))
	for i, p := range roster {
		scores[i] = PlayerScore{Name: p.Name, Score: p.Score}
	}
	return ScoresPayload{Scores: scores, OccurredAt: at}
}
