// Package commands implements the agent-log CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/agent-go/pkg/log"
)

// timeLayout is the timestamp format used by view and export.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// RunView prints the events of the log file at path in human-readable form.
func RunView(path string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes one event:
//
//	timestamp [agent:id] name CATEGORY details
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timeLayout)
	name := event.AgentName
	if name == "" {
		name = "-"
	}

	fmt.Fprintf(w, "%s [agent:%s] %s %s", ts, shortenID(event.AgentID), name, event.Category)

	switch {
	case event.Change != nil:
		c := event.Change
		fmt.Fprintf(w, " %v -> %v notified=%d", c.Old, c.New, c.Notified)
		if c.ExcludeID != 0 {
			state := "skipped"
			if !c.Excluded {
				state = "not subscribed"
			}
			fmt.Fprintf(w, " exclude=%d (%s)", c.ExcludeID, state)
		}
	case event.Subscription != nil:
		s := event.Subscription
		fmt.Fprintf(w, " %s", s.Action)
		if s.SubscriptionID != 0 {
			fmt.Fprintf(w, " id=%d", s.SubscriptionID)
		}
		fmt.Fprintf(w, " remaining=%d", s.Remaining)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of an agent ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
