package rosterservice

import (
	"context"
	"io"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
)

// Service defines the roster operations. Every mutating call is one load, mutate, save cycle.
type Service interface {
	// AddPlayer validates the record and appends it to the roster with a zero score.
	AddPlayer(ctx context.Context, player rosterdomain.Player) (rosterdomain.Player, error)

	// UpdatePlayer applies patch to the first record named name.
	UpdatePlayer(ctx context.Context, name string, patch rosterdomain.PlayerPatch) (rosterdomain.Player, error)

	// ComputeScores recomputes every score with the authoritative formula and saves the roster.
	ComputeScores(ctx context.Context) (rosterdomain.Roster, error)

	// ApplyAwards runs the fair-play, goal award and penalty passes on top of the current scores.
	ApplyAwards(ctx context.Context) (rosterdomain.Roster, error)

	ListPlayers(ctx context.Context) (rosterdomain.Roster, error)
	GetPlayer(ctx context.Context, name string) (rosterdomain.Player, error)

	// Breakdown returns the per-component parts of the authoritative formula for every player.
	Breakdown(ctx context.Context) ([]rosterdomain.ScoreParts, error)

	// ExportSpreadsheet writes the roster as an xlsx workbook.
	ExportSpreadsheet(ctx context.Context, w io.Writer) error

	// RenderChart writes a PNG bar chart of the current scores.
	RenderChart(ctx context.Context, w io.Writer) error
}
