package rosterdomain

import (
	"errors"
)

// ErrEmptyRoster is returned when a calculation is requested on a roster with no players.
// Callers surface it as a warning; the roster is left untouched.
var ErrEmptyRoster = errors.New("roster is empty, add at least one player")

const (
	// BaseLeaguePoints is the value league position is subtracted from.
	BaseLeaguePoints = 20
	// InterviewThreshold is the interview count that earns the media bonus.
	InterviewThreshold = 25
)

// Aggregates are the roster-wide values individual scores depend on.
type Aggregates struct {
	MinYellowCards   int
	MinRedCards      int
	MinGoalsConceded int
	MaxGoalsScored   int
}

// ComputeAggregates scans the roster once. The roster must not be empty.
func ComputeAggregates(roster Roster) (Aggregates, error) {
	if len(roster) == 0 {
		return Aggregates{}, ErrEmptyRoster
	}

	agg := Aggregates{
		MinYellowCards:   roster[0].YellowCards,
		MinRedCards:      roster[0].RedCards,
		MinGoalsConceded: roster[0].GoalsConceded,
		MaxGoalsScored:   roster[0].GoalsScored,
	}
	for _, p := range roster[1:] {
		agg.MinYellowCards = min(agg.MinYellowCards, p.YellowCards)
		agg.MinRedCards = min(agg.MinRedCards, p.RedCards)
		agg.MinGoalsConceded = min(agg.MinGoalsConceded, p.GoalsConceded)
		agg.MaxGoalsScored = max(agg.MaxGoalsScored, p.GoalsScored)
	}
	return agg, nil
}

// ApplyFairPlayBonus adds one point to every player sitting at both the roster-wide
// minimum yellow and minimum red card counts.
func ApplyFairPlayBonus(roster Roster) (Roster, error) {
	agg, err := ComputeAggregates(roster)
	if err != nil {
		return nil, err
	}

	out := roster.Clone()
	for i := range out {
		if out[i].YellowCards == agg.MinYellowCards && out[i].RedCards == agg.MinRedCards {
			out[i].Score++
		}
	}
	return out, nil
}

// ApplyGoalAwards adds one point for the fewest goals conceded and, independently, one
// point for the most goals scored. Ties are not broken.
func ApplyGoalAwards(roster Roster) (Roster, error) {
	agg, err := ComputeAggregates(roster)
	if err != nil {
		return nil, err
	}

	out := roster.Clone()
	for i := range out {
		if out[i].GoalsConceded == agg.MinGoalsConceded {
			out[i].Score++
		}
		if out[i].GoalsScored == agg.MaxGoalsScored {
			out[i].Score++
		}
	}
	return out, nil
}

// ApplyPenalties adds each player's penalty total to their score.
func ApplyPenalties(roster Roster) Roster {
	out := roster.Clone()
	for i := range out {
		out[i].Score += PenaltyTotal(out[i].PenaltyPoints)
	}
	return out
}

// ScoreParts is the per-component breakdown of a computed score.
type ScoreParts struct {
	Name           string `json:"name"`
	League         int    `json:"league"`
	Target         int    `json:"target"`
	Cup            int    `json:"cup"`
	NoYellowCards  int    `json:"no_yellow_cards"`
	FewestConceded int    `json:"fewest_conceded"`
	MostScored     int    `json:"most_scored"`
	Interviews     int    `json:"interviews"`
	Penalties      int    `json:"penalties"`
	Total          int    `json:"total"`
}

func bonus(cond bool) int {
	if cond {
		return 1
	}
	return 0
}

// scoreParts applies the authoritative formula to one player. The card bonus only checks
// for zero yellow cards; red cards and the roster minimum play no part here.
func scoreParts(p Player, agg Aggregates) ScoreParts {
	parts := ScoreParts{
		Name:           p.Name,
		League:         BaseLeaguePoints - p.LeaguePosition,
		Target:         p.TargetHit,
		Cup:            p.CupStage,
		NoYellowCards:  bonus(p.YellowCards == 0),
		FewestConceded: bonus(p.GoalsConceded == agg.MinGoalsConceded),
		MostScored:     bonus(p.GoalsScored == agg.MaxGoalsScored),
		Interviews:     bonus(p.Interviews >= InterviewThreshold),
		Penalties:      PenaltyTotal(p.PenaltyPoints),
	}
	parts.Total = parts.League + parts.Target + parts.Cup + parts.NoYellowCards +
		parts.FewestConceded + parts.MostScored + parts.Interviews + parts.Penalties
	return parts
}

// ScoreBreakdown returns the components of CalculateScores for every player.
func ScoreBreakdown(roster Roster) ([]ScoreParts, error) {
	agg, err := ComputeAggregates(roster)
	if err != nil {
		return nil, err
	}

	out := make([]ScoreParts, len(roster))
	for i, p := range roster {
		out[i] = scoreParts(p, agg)
	}
	return out, nil
}

// CalculateScores recomputes every score from scratch, overwriting whatever was there.
func CalculateScores(roster Roster) (Roster, error) {
	agg, err := ComputeAggregates(roster)
	if err != nil {
		return nil, err
	}

	out := roster.Clone()
	for i := range out {
		out[i].Score = scoreParts(out[i], agg).Total
	}
	return out, nil
}
