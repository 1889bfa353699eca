package rosterservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	rosterevents "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/events"
	rosterdb "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/repositories"
	rostermetrics "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/metrics"
	"github.com/Black-And-White-Club/league-score-manager/app/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"
)

// RosterService implements the Service interface.
type RosterService struct {
	repo      rosterdb.Repository
	publisher message.Publisher
	logger    *slog.Logger
	metrics   rostermetrics.RosterMetrics
	tracer    trace.Tracer
	now       func() time.Time

	// mu serializes load-mutate-save cycles within the process.
	mu sync.Mutex
}

// NewRosterService creates a new RosterService. publisher may be nil.
func NewRosterService(
	repo rosterdb.Repository,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics rostermetrics.RosterMetrics,
	tracer trace.Tracer,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = rostermetrics.NewNoop()
	}
	return &RosterService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		now:       time.Now,
	}
}

// AddPlayer validates the record and appends it to the roster.
func (s *RosterService) AddPlayer(ctx context.Context, player rosterdomain.Player) (rosterdomain.Player, error) {
	return withTelemetry(s, ctx, "AddPlayer", player.Name, func(ctx context.Context) (rosterdomain.Player, error) {
		return s.addPlayerLogic(ctx, player)
	})
}

func (s *RosterService) addPlayerLogic(ctx context.Context, player rosterdomain.Player) (rosterdomain.Player, error) {
	p := player.Clone()
	p.Score = 0
	if err := p.Validate(); err != nil {
		return rosterdomain.Player{}, err
	}
	s.warnUnknownPenalties(ctx, p)

	var index int
	roster, err := s.mutate(ctx, func(roster rosterdomain.Roster) (rosterdomain.Roster, error) {
		roster = append(roster, p)
		index = len(roster) - 1
		return roster, nil
	})
	if err != nil {
		return rosterdomain.Player{}, err
	}

	s.publish(ctx, rosterevents.PlayerAddedTopic, rosterevents.PlayerPayload{
		Player:     p,
		Index:      index,
		RosterSize: len(roster),
		OccurredAt: s.now().UTC(),
	})
	return p.Clone(), nil
}

// UpdatePlayer applies patch to the first record named name.
func (s *RosterService) UpdatePlayer(ctx context.Context, name string, patch rosterdomain.PlayerPatch) (rosterdomain.Player, error) {
	return withTelemetry(s, ctx, "UpdatePlayer", name, func(ctx context.Context) (rosterdomain.Player, error) {
		return s.updatePlayerLogic(ctx, name, patch)
	})
}

func (s *RosterService) updatePlayerLogic(ctx context.Context, name string, patch rosterdomain.PlayerPatch) (rosterdomain.Player, error) {
	var (
		updated rosterdomain.Player
		index   int
	)
	roster, err := s.mutate(ctx, func(roster rosterdomain.Roster) (rosterdomain.Roster, error) {
		index = roster.IndexOf(name)
		if index < 0 {
			return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
		}
		updated = patch.Apply(roster[index])
		if err := updated.Validate(); err != nil {
			return nil, err
		}
		roster[index] = updated
		return roster, nil
	})
	if err != nil {
		return rosterdomain.Player{}, err
	}
	s.warnUnknownPenalties(ctx, updated)

	s.publish(ctx, rosterevents.PlayerUpdatedTopic, rosterevents.PlayerPayload{
		Player:     updated,
		Index:      index,
		RosterSize: len(roster),
		OccurredAt: s.now().UTC(),
	})
	return updated.Clone(), nil
}

// ComputeScores recomputes every score and saves the roster.
func (s *RosterService) ComputeScores(ctx context.Context) (rosterdomain.Roster, error) {
	return withTelemetry(s, ctx, "ComputeScores", "roster", func(ctx context.Context) (rosterdomain.Roster, error) {
		return s.scoringPass(ctx, rosterevents.ScoresComputedTopic, rosterdomain.CalculateScores)
	})
}

// ApplyAwards adds the fair-play bonus, goal awards and penalties to the current scores.
func (s *RosterService) ApplyAwards(ctx context.Context) (rosterdomain.Roster, error) {
	return withTelemetry(s, ctx, "ApplyAwards", "roster", func(ctx context.Context) (rosterdomain.Roster, error) {
		return s.scoringPass(ctx, rosterevents.AwardsAppliedTopic, applyAwards)
	})
}

func applyAwards(roster rosterdomain.Roster) (rosterdomain.Roster, error) {
	roster, err := rosterdomain.ApplyFairPlayBonus(roster)
	if err != nil {
		return nil, err
	}
	roster, err = rosterdomain.ApplyGoalAwards(roster)
	if err != nil {
		return nil, err
	}
	return rosterdomain.ApplyPenalties(roster), nil
}

func (s *RosterService) scoringPass(ctx context.Context, topic string, pass func(rosterdomain.Roster) (rosterdomain.Roster, error)) (rosterdomain.Roster, error) {
	roster, err := s.mutate(ctx, pass)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, topic, rosterevents.NewScoresPayload(roster, s.now().UTC()))
	return roster.Clone(), nil
}

// ListPlayers returns the persisted roster.
func (s *RosterService) ListPlayers(ctx context.Context) (rosterdomain.Roster, error) {
	return withTelemetry(s, ctx, "ListPlayers", "roster", s.load)
}

// GetPlayer returns the first record named name.
func (s *RosterService) GetPlayer(ctx context.Context, name string) (rosterdomain.Player, error) {
	return withTelemetry(s, ctx, "GetPlayer", name, func(ctx context.Context) (rosterdomain.Player, error) {
		roster, err := s.load(ctx)
		if err != nil {
			return rosterdomain.Player{}, err
		}
		i := roster.IndexOf(name)
		if i < 0 {
			return rosterdomain.Player{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
		}
		return roster[i], nil
	})
}

// Breakdown returns the score components for every player.
func (s *RosterService) Breakdown(ctx context.Context) ([]rosterdomain.ScoreParts, error) {
	return withTelemetry(s, ctx, "Breakdown", "roster", func(ctx context.Context) ([]rosterdomain.ScoreParts, error) {
		roster, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return rosterdomain.ScoreBreakdown(roster)
	})
}

// ExportSpreadsheet writes the roster as an xlsx workbook to w.
func (s *RosterService) ExportSpreadsheet(ctx context.Context, w io.Writer) error {
	_, err := withTelemetry(s, ctx, "ExportSpreadsheet", "roster", func(ctx context.Context) (struct{}, error) {
		roster, err := s.load(ctx)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, WriteSpreadsheet(roster, w)
	})
	return err
}

// RenderChart writes a PNG bar chart of the current scores to w.
func (s *RosterService) RenderChart(ctx context.Context, w io.Writer) error {
	_, err := withTelemetry(s, ctx, "RenderChart", "roster", func(ctx context.Context) (struct{}, error) {
		roster, err := s.load(ctx)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, RenderScoreChart(roster, w)
	})
	return err
}

// mutate runs one load, fn, save cycle under the writer lock. An error from fn aborts
// the cycle before anything is saved.
func (s *RosterService) mutate(ctx context.Context, fn func(rosterdomain.Roster) (rosterdomain.Roster, error)) (rosterdomain.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := fn(roster)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}
	s.metrics.RecordRosterSize(ctx, len(updated))
	return updated, nil
}

func (s *RosterService) load(ctx context.Context) (rosterdomain.Roster, error) {
	roster, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	s.metrics.RecordRosterSize(ctx, len(roster))
	return roster, nil
}

func (s *RosterService) warnUnknownPenalties(ctx context.Context, p rosterdomain.Player) {
	unknown := rosterdomain.UnknownPenalties(p.PenaltyPoints)
	if len(unknown) == 0 {
		return
	}
	s.logger.WarnContext(ctx, "Unknown penalty tags contribute zero points",
		observability.CorrelationID(ctx),
		slog.String("player", p.Name),
		slog.Any("tags", unknown),
	)
}

// publish emits an event. Failures are logged and never fail the calling operation.
func (s *RosterService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal event payload",
			slog.String("topic", topic),
			observability.Error(err),
		)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := observability.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	msg.SetContext(ctx)

	if err := s.publisher.Publish(topic, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish roster event",
			observability.CorrelationID(ctx),
			slog.String("topic", topic),
			observability.Error(err),
		)
	}
}
