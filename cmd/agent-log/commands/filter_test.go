package commands

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/agent-go/pkg/log"
)

func TestFilterOptionsBuild(t *testing.T) {
	f, err := FilterOptions{
		AgentID:   "abc",
		AgentName: "setpoint",
		Category:  "change",
		TimeStart: "2026-01-28T10:15:33Z",
		TimeEnd:   "2026-01-28T10:15:40Z",
	}.Build()
	require.NoError(t, err)

	assert.Equal(t, "abc", f.AgentID)
	assert.Equal(t, "setpoint", f.AgentName)
	require.NotNil(t, f.Category)
	assert.Equal(t, log.CategoryChange, *f.Category)
	require.NotNil(t, f.TimeStart)
	require.NotNil(t, f.TimeEnd)
}

func TestFilterOptionsBuildErrors(t *testing.T) {
	_, err := FilterOptions{TimeStart: "yesterday"}.Build()
	assert.ErrorContains(t, err, "time-start")

	_, err = FilterOptions{TimeEnd: "tomorrow"}.Build()
	assert.ErrorContains(t, err, "time-end")

	_, err = FilterOptions{Category: "bogus"}.Build()
	assert.ErrorIs(t, err, log.ErrUnknownCategory)
}

func TestRunFilter(t *testing.T) {
	path := writeSampleLog(t)
	out := filepath.Join(t.TempDir(), "filtered.alog")

	n, err := RunFilter(path, out, FilterOptions{AgentID: "abc12345"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stats, err := CollectStats(out)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalEvents)
	assert.Len(t, stats.Agents, 1)
}

func TestRunFilterTimeWindow(t *testing.T) {
	path := writeSampleLog(t)
	out := filepath.Join(t.TempDir(), "filtered.alog")

	n, err := RunFilter(path, out, FilterOptions{
		TimeStart: "2026-01-28T10:15:33Z",
		TimeEnd:   "2026-01-28T10:15:35Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCopyEventsSkipsUnencodable(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.cbor")
	logger, err := log.NewFileLogger(output)
	require.NoError(t, err)

	events := []log.Event{
		{AgentID: "a", Change: &log.ChangeEvent{Old: 1, New: 2}},
		{AgentID: "b", Change: &log.ChangeEvent{Old: 1, New: make(chan int)}},
		{AgentID: "c", Change: &log.ChangeEvent{Old: 2, New: 3}},
	}
	next := func() (log.Event, error) {
		if len(events) == 0 {
			return log.Event{}, io.EOF
		}
		e := events[0]
		events = events[1:]
		return e, nil
	}

	n, err := copyEvents(next, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, logger.Close())

	reader, err := log.NewReader(output)
	require.NoError(t, err)
	defer reader.Close()

	var ids []string
	for {
		e, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ids = append(ids, e.AgentID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestCopyEventsReadError(t *testing.T) {
	logger, err := log.NewFileLogger(filepath.Join(t.TempDir(), "out.cbor"))
	require.NoError(t, err)
	defer logger.Close()

	readErr := errors.New("truncated")
	calls := 0
	next := func() (log.Event, error) {
		calls++
		if calls == 1 {
			return log.Event{AgentID: "a"}, nil
		}
		return log.Event{}, readErr
	}

	n, err := copyEvents(next, logger)
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, 1, n)
}
