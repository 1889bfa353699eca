package rosterrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	rosterevents "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/events"
	rostersubscribers "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/subscribers"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestEventRouter_DeliversToAudit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wmLogger := watermill.NewSlogLogger(logger)
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, wmLogger)
	defer pubSub.Close()

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	require.NoError(t, err)

	audit := rostersubscribers.NewAuditSubscribers(logger, 10)
	NewEventRouter(logger, router, pubSub, prometheus.NewRegistry()).Configure(audit)

	go func() { _ = router.Run(ctx) }()
	<-router.Running()
	defer router.Close()

	data, err := json.Marshal(rosterevents.PlayerPayload{Player: rosterdomain.NewPlayer("A"), RosterSize: 1})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(rosterevents.PlayerAddedTopic, message.NewMessage(watermill.NewUUID(), data)))

	require.Eventually(t, func() bool { return len(audit.Entries()) == 1 }, 2*time.Second, 10*time.Millisecond)
}
