package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/agent-go/pkg/log"
)

var testBase = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp: testBase, AgentID: "abc12345-6789-0123-4567-890abcdef012", AgentName: "setpoint",
			Category:     log.CategorySubscription,
			Subscription: &log.SubscriptionEvent{Action: log.ActionAttach, SubscriptionID: 1, Remaining: 1},
		},
		{
			Timestamp: testBase.Add(time.Second), AgentID: "abc12345-6789-0123-4567-890abcdef012", AgentName: "setpoint",
			Category: log.CategoryChange,
			Change:   &log.ChangeEvent{Old: 21.5, New: 30.0, ExcludeID: 1, Excluded: true, Notified: 2},
		},
		{
			Timestamp: testBase.Add(2 * time.Second), AgentID: "def67890-0000-0000-0000-000000000000", AgentName: "mode",
			Category: log.CategoryChange,
			Change:   &log.ChangeEvent{Old: "off", New: "heat", Notified: 1},
		},
		{
			Timestamp: testBase.Add(3 * time.Second), AgentID: "abc12345-6789-0123-4567-890abcdef012", AgentName: "setpoint",
			Category:     log.CategorySubscription,
			Subscription: &log.SubscriptionEvent{Action: log.ActionDetachAll},
		},
	}
}

func writeSampleLog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.alog")
	logger, err := log.NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range sampleEvents() {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())
	return path
}
