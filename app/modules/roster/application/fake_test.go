package rosterservice

import (
	"context"
	"sync"
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	rosterdb "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/repositories"
	rostermetrics "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ------------------------
// Fake Roster Repo
// ------------------------

// FakeRosterRepo keeps the roster in memory unless a ...Func override is set.
type FakeRosterRepo struct {
	mu     sync.Mutex
	trace  []string
	roster rosterdomain.Roster
	saves  int

	LoadFunc func(ctx context.Context) (rosterdomain.Roster, error)
	SaveFunc func(ctx context.Context, roster rosterdomain.Roster) error
}

func NewFakeRosterRepo(initial ...rosterdomain.Player) *FakeRosterRepo {
	return &FakeRosterRepo{
		trace:  []string{},
		roster: rosterdomain.Roster(initial).Clone(),
	}
}

func (f *FakeRosterRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRosterRepo) Load(ctx context.Context) (rosterdomain.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Load")
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx)
	}
	return f.roster.Clone(), nil
}

func (f *FakeRosterRepo) Save(ctx context.Context, roster rosterdomain.Roster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Save")
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, roster)
	}
	f.roster = roster.Clone()
	f.saves++
	return nil
}

// --- Accessors for assertions ---

func (f *FakeRosterRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRosterRepo) Stored() rosterdomain.Roster {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roster.Clone()
}

var _ rosterdb.Repository = (*FakeRosterRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type publishedMessage struct {
	Topic   string
	Message *message.Message
}

type FakePublisher struct {
	mu        sync.Mutex
	published []publishedMessage

	PublishFunc func(topic string, messages ...*message.Message) error
}

func (f *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, messages...)
	}
	for _, m := range messages {
		f.published = append(f.published, publishedMessage{Topic: topic, Message: m})
	}
	return nil
}

func (f *FakePublisher) Close() error { return nil }

func (f *FakePublisher) Published() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedMessage, len(f.published))
	copy(out, f.published)
	return out
}

var _ message.Publisher = (*FakePublisher)(nil)

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	mu         sync.Mutex
	attempts   map[string]int
	successes  map[string]int
	failures   map[string]int
	rosterSize int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		attempts:  map[string]int{},
		successes: map[string]int{},
		failures:  map[string]int{},
	}
}

func (f *FakeMetrics) RecordOperationAttempt(ctx context.Context, operation, service string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[operation]++
}

func (f *FakeMetrics) RecordOperationSuccess(ctx context.Context, operation, service string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes[operation]++
}

func (f *FakeMetrics) RecordOperationFailure(ctx context.Context, operation, service string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[operation]++
}

func (f *FakeMetrics) RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration) {
}

func (f *FakeMetrics) RecordRosterSize(ctx context.Context, size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosterSize = size
}

var _ rostermetrics.RosterMetrics = (*FakeMetrics)(nil)
