package rosterservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	rosterevents "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/events"
	"github.com/Black-And-White-Club/league-score-manager/app/observability"
	"github.com/Black-And-White-Club/league-score-manager/integration_tests/testutils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestService(repo *FakeRosterRepo, pub *FakePublisher, metrics *FakeMetrics) *RosterService {
	if metrics == nil {
		metrics = NewFakeMetrics()
	}
	var publisher message.Publisher
	if pub != nil {
		publisher = pub
	}
	svc := NewRosterService(
		repo,
		publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics,
		noop.NewTracerProvider().Tracer("test"),
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func scenarioPlayer(name string) rosterdomain.Player {
	return rosterdomain.Player{
		Name:           name,
		LeaguePosition: 1,
		TargetHit:      1,
		CupStage:       4,
		GoalsConceded:  5,
		GoalsScored:    20,
		Interviews:     30,
		PenaltyPoints:  []rosterdomain.PenaltyTag{},
	}
}

func TestAddPlayer(t *testing.T) {
	tests := []struct {
		name      string
		player    rosterdomain.Player
		setupRepo func(*FakeRosterRepo)
		wantErr   bool
		wantErrIs error
		wantField string
		wantTrace []string
		wantSize  int
	}{
		{
			name:      "appends record with zero score",
			player:    func() rosterdomain.Player { p := scenarioPlayer("A"); p.Score = 99; p.PenaltyPoints = nil; return p }(),
			wantTrace: []string{"Load", "Save"},
			wantSize:  2,
		},
		{
			name:      "validation error never touches the store",
			player:    func() rosterdomain.Player { p := scenarioPlayer("A"); p.CupStage = 7; return p }(),
			wantErr:   true,
			wantField: "cup_stage",
			wantTrace: []string{},
			wantSize:  1,
		},
		{
			name:   "save failure is surfaced",
			player: scenarioPlayer("A"),
			setupRepo: func(f *FakeRosterRepo) {
				f.SaveFunc = func(ctx context.Context, roster rosterdomain.Roster) error {
					return errors.New("disk full")
				}
			},
			wantErr:   true,
			wantTrace: []string{"Load", "Save"},
			wantSize:  1,
		},
		{
			name:   "load failure is surfaced",
			player: scenarioPlayer("A"),
			setupRepo: func(f *FakeRosterRepo) {
				f.LoadFunc = func(ctx context.Context) (rosterdomain.Roster, error) {
					return nil, errors.New("permission denied")
				}
			},
			wantErr:   true,
			wantTrace: []string{"Load"},
			wantSize:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRosterRepo(rosterdomain.NewPlayer("existing"))
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			pub := &FakePublisher{}
			svc := newTestService(repo, pub, nil)

			got, err := svc.AddPlayer(context.Background(), tt.player)

			assert.Equal(t, tt.wantTrace, repo.Trace())
			assert.Len(t, repo.Stored(), tt.wantSize)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantField != "" {
					var ve *rosterdomain.ValidationError
					require.True(t, errors.As(err, &ve))
					assert.Equal(t, tt.wantField, ve.Field)
				}
				assert.Empty(t, pub.Published())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 0, got.Score)
			assert.NotNil(t, got.PenaltyPoints)

			stored := repo.Stored()
			assert.Equal(t, "existing", stored[0].Name)
			assert.Equal(t, got, stored[1])

			published := pub.Published()
			require.Len(t, published, 1)
			assert.Equal(t, rosterevents.PlayerAddedTopic, published[0].Topic)

			var payload rosterevents.PlayerPayload
			require.NoError(t, json.Unmarshal(published[0].Message.Payload, &payload))
			assert.Equal(t, 1, payload.Index)
			assert.Equal(t, 2, payload.RosterSize)
			assert.Equal(t, "A", payload.Player.Name)
			assert.True(t, payload.OccurredAt.Equal(fixedNow))
		})
	}
}

func TestAddPlayer_SaveErrorWrapped(t *testing.T) {
	diskErr := errors.New("disk full")
	repo := NewFakeRosterRepo()
	repo.SaveFunc = func(ctx context.Context, roster rosterdomain.Roster) error { return diskErr }
	metrics := NewFakeMetrics()
	svc := newTestService(repo, nil, metrics)

	_, err := svc.AddPlayer(context.Background(), scenarioPlayer("A"))
	require.Error(t, err)
	assert.ErrorIs(t, err, diskErr)
	assert.Contains(t, err.Error(), "AddPlayer: failed to save roster")
	assert.Equal(t, 1, metrics.failures["AddPlayer"])
	assert.Equal(t, 0, metrics.successes["AddPlayer"])
}

func TestAddPlayer_CorrelationIDOnEvent(t *testing.T) {
	pub := &FakePublisher{}
	svc := newTestService(NewFakeRosterRepo(), pub, nil)

	ctx := observability.WithCorrelationID(context.Background(), "req-42")
	_, err := svc.AddPlayer(ctx, scenarioPlayer("A"))
	require.NoError(t, err)

	published := pub.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "req-42", middleware.MessageCorrelationID(published[0].Message))
}

func TestAddPlayer_PublishFailureDoesNotFail(t *testing.T) {
	repo := NewFakeRosterRepo()
	pub := &FakePublisher{
		PublishFunc: func(topic string, messages ...*message.Message) error {
			return errors.New("nats unavailable")
		},
	}
	svc := newTestService(repo, pub, nil)

	_, err := svc.AddPlayer(context.Background(), scenarioPlayer("A"))
	require.NoError(t, err)
	assert.Len(t, repo.Stored(), 1)
}

func TestAddPlayer_ConcurrentWritersLoseNothing(t *testing.T) {
	repo := NewFakeRosterRepo()
	svc := newTestService(repo, nil, nil)

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddPlayer(context.Background(), rosterdomain.NewPlayer(fmt.Sprintf("p%02d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, repo.Stored(), writers)
}

func TestUpdatePlayer(t *testing.T) {
	five := 5
	zero := 0
	tags := []rosterdomain.PenaltyTag{rosterdomain.PenaltyActivity, "Mystery violation"}

	tests := []struct {
		name      string
		target    string
		patch     rosterdomain.PlayerPatch
		wantErrIs error
		wantField string
		verify    func(t *testing.T, stored rosterdomain.Roster, got rosterdomain.Player)
		wantTrace []string
	}{
		{
			name:   "updates first match only",
			target: "dup",
			patch:  rosterdomain.PlayerPatch{GoalsScored: &five, PenaltyPoints: &tags},
			verify: func(t *testing.T, stored rosterdomain.Roster, got rosterdomain.Player) {
				assert.Equal(t, 5, stored[0].GoalsScored)
				assert.Equal(t, tags, stored[0].PenaltyPoints)
				assert.Equal(t, 0, stored[2].GoalsScored)
				assert.Equal(t, stored[0], got)
			},
			wantTrace: []string{"Load", "Save"},
		},
		{
			name:      "unknown name",
			target:    "ghost",
			patch:     rosterdomain.PlayerPatch{GoalsScored: &five},
			wantErrIs: ErrPlayerNotFound,
			wantTrace: []string{"Load"},
		},
		{
			name:      "invalid patch is rejected",
			target:    "dup",
			patch:     rosterdomain.PlayerPatch{LeaguePosition: &zero},
			wantField: "league_position",
			wantTrace: []string{"Load"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRosterRepo(rosterdomain.NewPlayer("dup"), rosterdomain.NewPlayer("other"), rosterdomain.NewPlayer("dup"))
			pub := &FakePublisher{}
			svc := newTestService(repo, pub, nil)

			got, err := svc.UpdatePlayer(context.Background(), tt.target, tt.patch)
			assert.Equal(t, tt.wantTrace, repo.Trace())

			switch {
			case tt.wantErrIs != nil:
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Empty(t, pub.Published())
			case tt.wantField != "":
				var ve *rosterdomain.ValidationError
				require.True(t, errors.As(err, &ve), "got %v", err)
				assert.Equal(t, tt.wantField, ve.Field)
			default:
				require.NoError(t, err)
				tt.verify(t, repo.Stored(), got)
				published := pub.Published()
				require.Len(t, published, 1)
				assert.Equal(t, rosterevents.PlayerUpdatedTopic, published[0].Topic)
			}
		})
	}
}

func TestComputeScores(t *testing.T) {
	t.Run("single player scenario", func(t *testing.T) {
		stale := scenarioPlayer("A")
		stale.Score = -100
		repo := NewFakeRosterRepo(stale)
		pub := &FakePublisher{}
		svc := newTestService(repo, pub, nil)

		got, err := svc.ComputeScores(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 28, got[0].Score)
		assert.Equal(t, 28, repo.Stored()[0].Score)

		published := pub.Published()
		require.Len(t, published, 1)
		assert.Equal(t, rosterevents.ScoresComputedTopic, published[0].Topic)
		var payload rosterevents.ScoresPayload
		require.NoError(t, json.Unmarshal(published[0].Message.Payload, &payload))
		assert.Equal(t, []rosterevents.PlayerScore{{Name: "A", Score: 28}}, payload.Scores)
	})

	t.Run("empty roster is a warning and saves nothing", func(t *testing.T) {
		repo := NewFakeRosterRepo()
		metrics := NewFakeMetrics()
		pub := &FakePublisher{}
		svc := newTestService(repo, pub, metrics)

		_, err := svc.ComputeScores(context.Background())
		assert.ErrorIs(t, err, rosterdomain.ErrEmptyRoster)
		assert.Equal(t, []string{"Load"}, repo.Trace())
		assert.Empty(t, pub.Published())
		assert.Equal(t, 0, metrics.failures["ComputeScores"])
	})

	t.Run("matches the scoring engine", func(t *testing.T) {
		roster := testutils.NewTestDataGenerator(11).GenerateRoster(12)
		repo := NewFakeRosterRepo(roster...)
		svc := newTestService(repo, nil, nil)

		got, err := svc.ComputeScores(context.Background())
		require.NoError(t, err)

		want, err := rosterdomain.CalculateScores(roster)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("scores mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestApplyAwards(t *testing.T) {
	a := rosterdomain.NewPlayer("A")
	a.Score = 10
	a.GoalsScored = 9
	a.GoalsConceded = 1
	a.PenaltyPoints = []rosterdomain.PenaltyTag{rosterdomain.PenaltyTransfer}

	b := rosterdomain.NewPlayer("B")
	b.Score = 10
	b.YellowCards = 2
	b.GoalsScored = 3
	b.GoalsConceded = 4

	repo := NewFakeRosterRepo(a, b)
	pub := &FakePublisher{}
	svc := newTestService(repo, pub, nil)

	got, err := svc.ApplyAwards(context.Background())
	require.NoError(t, err)

	// A: +1 fair play, +1 fewest conceded, +1 most scored, -3 transfer.
	assert.Equal(t, 10, got[0].Score)
	// B: no awards.
	assert.Equal(t, 10, got[1].Score)
	assert.Equal(t, got, repo.Stored())

	published := pub.Published()
	require.Len(t, published, 1)
	assert.Equal(t, rosterevents.AwardsAppliedTopic, published[0].Topic)

	_, err = newTestService(NewFakeRosterRepo(), nil, nil).ApplyAwards(context.Background())
	assert.ErrorIs(t, err, rosterdomain.ErrEmptyRoster)
}

func TestReadOperations(t *testing.T) {
	repo := NewFakeRosterRepo(scenarioPlayer("A"), rosterdomain.NewPlayer("B"), scenarioPlayer("A"))
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	list, err := svc.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A"}, list.Names())

	p, err := svc.GetPlayer(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", p.Name)

	_, err = svc.GetPlayer(ctx, "Z")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	parts, err := svc.Breakdown(ctx)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	// B concedes fewer, so A misses that bonus.
	assert.Equal(t, 27, parts[0].Total)

	for _, step := range repo.Trace() {
		assert.Equal(t, "Load", step)
	}
}

func TestWithTelemetry_RecoversPanic(t *testing.T) {
	repo := NewFakeRosterRepo()
	repo.LoadFunc = func(ctx context.Context) (rosterdomain.Roster, error) {
		panic("boom")
	}
	metrics := NewFakeMetrics()
	svc := newTestService(repo, nil, metrics)

	got, err := svc.ListPlayers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in ListPlayers")
	assert.Nil(t, got)
	assert.Equal(t, 1, metrics.failures["ListPlayers"])
	assert.Equal(t, 1, metrics.attempts["ListPlayers"])
}
