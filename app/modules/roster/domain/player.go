package rosterdomain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinLeaguePosition = 1
	MaxLeaguePosition = 20

	TargetMet    = 1
	TargetMissed = -1

	MinCupStage = 1
	MaxCupStage = 4
)

// Player is one competitor's statistics and derived score.
type Player struct {
	Name           string       `json:"name"`
	LeaguePosition int          `json:"league_position"`
	TargetHit      int          `json:"target_hit"`
	CupStage       int          `json:"cup_stage"`
	YellowCards    int          `json:"yellow_cards"`
	RedCards       int          `json:"red_cards"`
	GoalsConceded  int          `json:"goals_conceded"`
	GoalsScored    int          `json:"goals_scored"`
	Interviews     int          `json:"interviews"`
	PenaltyPoints  []PenaltyTag `json:"penalty_points"`
	Score          int          `json:"score"`
}

// Roster is the ordered collection of players at a point in time.
type Roster []Player

// NewPlayer returns a player carrying the entry form defaults.
func NewPlayer(name string) Player {
	return Player{
		Name:           name,
		LeaguePosition: MinLeaguePosition,
		TargetHit:      TargetMet,
		CupStage:       MaxCupStage,
		PenaltyPoints:  []PenaltyTag{},
	}
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	out := p
	out.PenaltyPoints = make([]PenaltyTag, len(p.PenaltyPoints))
	copy(out.PenaltyPoints, p.PenaltyPoints)
	return out
}

// Clone returns a deep copy of the roster.
func (r Roster) Clone() Roster {
	if r == nil {
		return Roster{}
	}
	out := make(Roster, len(r))
	for i, p := range r {
		out[i] = p.Clone()
	}
	return out
}

// IndexOf returns the index of the first player with the given name, or -1.
func (r Roster) IndexOf(name string) int {
	for i, p := range r {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Names returns player names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, p := range r {
		names[i] = p.Name
	}
	return names
}

// ValidationError reports a single invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the range rules of every field. Errors for several fields are joined.
func (p Player) Validate() error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, &ValidationError{Field: "name", Reason: "must not be empty"})
	}
	if p.LeaguePosition < MinLeaguePosition || p.LeaguePosition > MaxLeaguePosition {
		errs = append(errs, &ValidationError{
			Field:  "league_position",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinLeaguePosition, MaxLeaguePosition, p.LeaguePosition),
		})
	}
	if p.TargetHit != TargetMet && p.TargetHit != TargetMissed {
		errs = append(errs, &ValidationError{
			Field:  "target_hit",
			Reason: fmt.Sprintf("must be 1 or -1, got %d", p.TargetHit),
		})
	}
	if p.CupStage < MinCupStage || p.CupStage > MaxCupStage {
		errs = append(errs, &ValidationError{
			Field:  "cup_stage",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinCupStage, MaxCupStage, p.CupStage),
		})
	}

	counters := []struct {
		field string
		value int
	}{
		{"yellow_cards", p.YellowCards},
		{"red_cards", p.RedCards},
		{"goals_conceded", p.GoalsConceded},
		{"goals_scored", p.GoalsScored},
		{"interviews", p.Interviews},
	}
	for _, c := range counters {
		if c.value < 0 {
			errs = append(errs, &ValidationError{
				Field:  c.field,
				Reason: fmt.Sprintf("must not be negative, got %d", c.value),
			})
		}
	}

	return errors.Join(errs...)
}

// PlayerPatch carries the fields an update changes. Nil fields keep their current value.
type PlayerPatch struct {
	LeaguePosition *int          `json:"league_position,omitempty"`
	TargetHit      *int          `json:"target_hit,omitempty"`
	CupStage       *int          `json:"cup_stage,omitempty"`
	YellowCards    *int          `json:"yellow_cards,omitempty"`
	RedCards       *int          `json:"red_cards,omitempty"`
	GoalsConceded  *int          `json:"goals_conceded,omitempty"`
	GoalsScored    *int          `json:"goals_scored,omitempty"`
	Interviews     *int          `json:"interviews,omitempty"`
	PenaltyPoints  *[]PenaltyTag `json:"penalty_points,omitempty"`
}

// Apply returns a copy of p with the patch applied. Score is left as-is.
func (pp PlayerPatch) Apply(p Player) Player {
	out := p.Clone()
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&out.LeaguePosition, pp.LeaguePosition)
	setInt(&out.TargetHit, pp.TargetHit)
	setInt(&out.CupStage, pp.CupStage)
	setInt(&out.YellowCards, pp.YellowCards)
	setInt(&out.RedCards, pp.RedCards)
	setInt(&out.GoalsConceded, pp.GoalsConceded)
	setInt(&out.GoalsScored, pp.GoalsScored)
	setInt(&out.Interviews, pp.Interviews)
	if pp.PenaltyPoints != nil {
		out.PenaltyPoints = make([]PenaltyTag, len(*pp.PenaltyPoints))
		copy(out.PenaltyPoints, *pp.PenaltyPoints)
	}
	return out
}

// IsEmpty reports whether the patch changes nothing.
func (pp PlayerPatch) IsEmpty() bool {
	return pp.LeaguePosition == nil && pp.TargetHit == nil && pp.CupStage == nil &&
		pp.YellowCards == nil && pp.RedCards == nil && pp.GoalsConceded == nil &&
		pp.GoalsScored == nil && pp.Interviews == nil && pp.PenaltyPoints == nil
}
