package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/mash-protocol/agent-go/pkg/log"
)

// FilterOptions specifies filtering criteria shared by the view, export
// and filter commands. Empty fields match everything.
type FilterOptions struct {
	AgentID   string
	AgentName string
	Category  string
	TimeStart string
	TimeEnd   string
}

// Build converts the options to a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		AgentID:   o.AgentID,
		AgentName: o.AgentName,
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if o.Category != "" {
		c, err := log.ParseCategory(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// RunFilter writes the events of the log file at path that match opts to
// the CBOR log file output. It returns the number of events written.
func RunFilter(path, output string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}

	count, err := copyEvents(reader.Next, logger)
	if closeErr := logger.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close output: %w", closeErr)
	}
	return count, err
}

// copyEvents logs every event next yields until io.EOF. It returns the
// number of events the logger actually wrote.
func copyEvents(next func() (log.Event, error), logger *log.FileLogger) (int, error) {
	read := 0
	for {
		event, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return read - logger.Dropped(), fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		read++
	}

	return read - logger.Dropped(), nil
}
