package rosterdb

import (
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/uptrace/bun"
)

// PlayerRow is one roster entry in the players table. Position keeps roster order.
type PlayerRow struct {
	bun.BaseModel  `bun:"table:players,alias:p"`
	Position       int       `bun:"position,pk"`
	Name           string    `bun:"name,notnull"`
	LeaguePosition int       `bun:"league_position,notnull"`
	TargetHit      int       `bun:"target_hit,notnull"`
	CupStage       int       `bun:"cup_stage,notnull"`
	YellowCards    int       `bun:"yellow_cards,notnull,default:0"`
	RedCards       int       `bun:"red_cards,notnull,default:0"`
	GoalsConceded  int       `bun:"goals_conceded,notnull,default:0"`
	GoalsScored    int       `bun:"goals_scored,notnull,default:0"`
	Interviews     int       `bun:"interviews,notnull,default:0"`
	PenaltyPoints  []string  `bun:"penalty_points,array"`
	Score          int       `bun:"score,notnull,default:0"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func toRow(position int, p rosterdomain.Player, now time.Time) PlayerRow {
	tags := make([]string, len(p.PenaltyPoints))
	for i, t := range p.PenaltyPoints {
		tags[i] = string(t)
	}
	return PlayerRow{
		Position:       position,
		Name:           p.Name,
		LeaguePosition: p.LeaguePosition,
		TargetHit:      p.TargetHit,
		CupStage:       p.CupStage,
		YellowCards:    p.YellowCards,
		RedCards:       p.RedCards,
		GoalsConceded:  p.GoalsConceded,
		GoalsScored:    p.GoalsScored,
		Interviews:     p.Interviews,
		PenaltyPoints:  tags,
		Score:          p.Score,
		UpdatedAt:      now,
	}
}

func (r PlayerRow) toPlayer() rosterdomain.Player {
	tags := make([]rosterdomain.PenaltyTag, len(r.PenaltyPoints))
	for i, t := range r.PenaltyPoints {
		tags[i] = rosterdomain.PenaltyTag(t)
	}
	return rosterdomain.Player{
		Name:           r.Name,
		LeaguePosition: r.LeaguePosition,
		TargetHit:      r.TargetHit,
		CupStage:       r.CupStage,
		YellowCards:    r.YellowCards,
		RedCards:       r.RedCards,
		GoalsConceded:  r.GoalsConceded,
		GoalsScored:    r.GoalsScored,
		Interviews:     r.Interviews,
		PenaltyPoints:  tags,
		Score:          r.Score,
	}
}
