package rosterhandlers

import (
	"context"
	"io"

	rosterservice "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/application"
	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
)

// FakeService implements rosterservice.Service with overridable behavior.
type FakeService struct {
	AddPlayerFunc         func(ctx context.Context, player rosterdomain.Player) (rosterdomain.Player, error)
	UpdatePlayerFunc      func(ctx context.Context, name string, patch rosterdomain.PlayerPatch) (rosterdomain.Player, error)
	ComputeScoresFunc     func(ctx context.Context) (rosterdomain.Roster, error)
	ApplyAwardsFunc       func(ctx context.Context) (rosterdomain.Roster, error)
	ListPlayersFunc       func(ctx context.Context) (rosterdomain.Roster, error)
	GetPlayerFunc         func(ctx context.Context, name string) (rosterdomain.Player, error)
	BreakdownFunc         func(ctx context.Context) ([]rosterdomain.ScoreParts, error)
	ExportSpreadsheetFunc func(ctx context.Context, w io.Writer) error
	RenderChartFunc       func(ctx context.Context, w io.Writer) error
}

func (f *FakeService) AddPlayer(ctx context.Context, player rosterdomain.Player) (rosterdomain.Player, error) {
	if f.AddPlayerFunc != nil {
		return f.AddPlayerFunc(ctx, player)
	}
	return player, nil
}

func (f *FakeService) UpdatePlayer(ctx context.Context, name string, patch rosterdomain.PlayerPatch) (rosterdomain.Player, error) {
	if f.UpdatePlayerFunc != nil {
		return f.UpdatePlayerFunc(ctx, name, patch)
	}
	return patch.Apply(rosterdomain.NewPlayer(name)), nil
}

func (f *FakeService) ComputeScores(ctx context.Context) (rosterdomain.Roster, error) {
	if f.ComputeScoresFunc != nil {
		return f.ComputeScoresFunc(ctx)
	}
	return rosterdomain.Roster{}, nil
}

func (f *FakeService) ApplyAwards(ctx context.Context) (rosterdomain.Roster, error) {
	if f.ApplyAwardsFunc != nil {
		return f.ApplyAwardsFunc(ctx)
	}
	return rosterdomain.Roster{}, nil
}

func (f *FakeService) ListPlayers(ctx context.Context) (rosterdomain.Roster, error) {
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx)
	}
	return rosterdomain.Roster{}, nil
}

func (f *FakeService) GetPlayer(ctx context.Context, name string) (rosterdomain.Player, error) {
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, name)
	}
	return rosterdomain.Player{}, rosterservice.ErrPlayerNotFound
}

func (f *FakeService) Breakdown(ctx context.Context) ([]rosterdomain.ScoreParts, error) {
	if f.BreakdownFunc != nil {
		return f.BreakdownFunc(ctx)
	}
	return nil, rosterdomain.ErrEmptyRoster
}

func (f *FakeService) ExportSpreadsheet(ctx context.Context, w io.Writer) error {
	if f.ExportSpreadsheetFunc != nil {
		return f.ExportSpreadsheetFunc(ctx, w)
	}
	return nil
}

func (f *FakeService) RenderChart(ctx context.Context, w io.Writer) error {
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx, w)
	}
	return nil
}

var _ rosterservice.Service = (*FakeService)(nil)
