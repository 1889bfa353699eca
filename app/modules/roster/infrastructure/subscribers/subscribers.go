package rostersubscribers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	rosterevents "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/events"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// AuditEntry is one observed roster event.
type AuditEntry struct {
	Topic         string
	MessageID     string
	CorrelationID string
	Summary       string
}

// AuditSubscribers logs every roster event and keeps the most recent entries in memory.
type AuditSubscribers struct {
	logger *slog.Logger
	limit  int

	mu      sync.Mutex
	entries []AuditEntry
}

// NewAuditSubscribers creates an audit trail that retains at most limit entries.
func NewAuditSubscribers(logger *slog.Logger, limit int) *AuditSubscribers {
	if limit <= 0 {
		limit = 100
	}
	return &AuditSubscribers{logger: logger, limit: limit}
}

// Register adds one consumer handler per roster topic to router.
func (a *AuditSubscribers) Register(router *message.Router, subscriber message.Subscriber) {
	for _, topic := range rosterevents.Topics {
		router.AddConsumerHandler("roster.audit."+topic, topic, subscriber, a.handle(topic))
	}
}

// Entries returns a copy of the retained entries, oldest first.
func (a *AuditSubscribers) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *AuditSubscribers) handle(topic string) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		summary, err := summarize(topic, msg.Payload)
		if err != nil {
			// Malformed payloads are logged and acked; redelivery would not fix them.
			a.logger.WarnContext(msg.Context(), "Dropping unreadable roster event",
				slog.String("topic", topic),
				slog.String("message_id", msg.UUID),
				slog.String("error", err.Error()),
			)
			return nil
		}

		entry := AuditEntry{
			Topic:         topic,
			MessageID:     msg.UUID,
			CorrelationID: middleware.MessageCorrelationID(msg),
			Summary:       summary,
		}
		a.logger.InfoContext(msg.Context(), "Roster event",
			slog.String("topic", entry.Topic),
			slog.String("message_id", entry.MessageID),
			slog.String("correlation_id", entry.CorrelationID),
			slog.String("summary", entry.Summary),
		)

		a.mu.Lock()
		a.entries = append(a.entries, entry)
		if len(a.entries) > a.limit {
			a.entries = a.entries[len(a.entries)-a.limit:]
		}
		a.mu.Unlock()
		return nil
	}
}

func summarize(topic string, payload []byte) (string, error) {
	switch topic {
	case rosterevents.PlayerAddedTopic, rosterevents.PlayerUpdatedTopic:
		var p rosterevents.PlayerPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s at index %d of %d", p.Player.Name, p.Index, p.RosterSize), nil
	default:
		var p rosterevents.ScoresPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", err
		}
		if len(p.Scores) == 0 {
			return "no players", nil
		}
		best := p.Scores[0]
		for _, s := range p.Scores[1:] {
			if s.Score > best.Score {
				best = s
			}
		}
		return fmt.Sprintf("%d players, top %s with %d", len(p.Scores), best.Name, best.Score), nil
	}
}
