package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream that holds roster events.
	StreamName = "roster"
	// StreamSubjects matches every roster event topic.
	StreamSubjects = "roster.>"
)

// EnsureStream creates the roster stream when it does not exist yet.
func EnsureStream(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to check stream %s: %w", StreamName, err)
	}

	if _, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamSubjects},
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to create JetStream stream", slog.String("stream", StreamName), slog.Any("error", err))
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}
	logger.InfoContext(ctx, "Created JetStream stream", slog.String("stream", StreamName))
	return nil
}
