package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/agent-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Agents           map[string]*AgentStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// AgentStats holds statistics for a single agent.
type AgentStats struct {
	Name          string
	FirstSeen     time.Time
	LastSeen      time.Time
	Changes       int
	Notifications int
	Exclusions    int
	Attaches      int
	Detaches      int
}

// CollectStats reads every event of the log file at path.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Agents:           make(map[string]*AgentStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	as, ok := s.Agents[event.AgentID]
	if !ok {
		as = &AgentStats{FirstSeen: event.Timestamp}
		s.Agents[event.AgentID] = as
	}
	if event.AgentName != "" {
		as.Name = event.AgentName
	}
	if event.Timestamp.After(as.LastSeen) {
		as.LastSeen = event.Timestamp
	}

	switch {
	case event.Change != nil:
		as.Changes++
		as.Notifications += event.Change.Notified
		if event.Change.Excluded {
			as.Exclusions++
		}
	case event.Subscription != nil:
		switch event.Subscription.Action {
		case log.ActionAttach:
			as.Attaches++
		case log.ActionDetach, log.ActionDetachAll:
			as.Detaches++
		}
	}
}

// RunStats prints statistics about the log file at path.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, s *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", s.TotalEvents)
	if s.TotalEvents == 0 {
		return
	}

	fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
		s.TimeRange.Start.UTC().Format(timeLayout),
		s.TimeRange.End.UTC().Format(timeLayout),
		s.TimeRange.End.Sub(s.TimeRange.Start))

	fmt.Fprintln(w, "\nBy category:")
	for _, c := range []log.Category{log.CategoryChange, log.CategorySubscription} {
		fmt.Fprintf(w, "  %-13s %d\n", c.String(), s.EventsByCategory[c])
	}

	ids := make([]string, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.Agents[ids[i]].FirstSeen.Before(s.Agents[ids[j]].FirstSeen)
	})

	fmt.Fprintf(w, "\nAgents (%d):\n", len(ids))
	for _, id := range ids {
		as := s.Agents[id]
		name := as.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "  %s %-12s changes=%d notifications=%d exclusions=%d attaches=%d detaches=%d\n",
			shortenID(id), name, as.Changes, as.Notifications, as.Exclusions, as.Attaches, as.Detaches)
	}
}
