package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mash-protocol/agent-go/pkg/log"
)

// exportRecord is the flat JSON form of an event.
type exportRecord struct {
	Timestamp      string `json:"timestamp"`
	AgentID        string `json:"agent_id"`
	AgentName      string `json:"agent_name,omitempty"`
	Category       string `json:"category"`
	Old            any    `json:"old,omitempty"`
	New            any    `json:"new,omitempty"`
	ExcludeID      uint32 `json:"exclude_id,omitempty"`
	Excluded       bool   `json:"excluded,omitempty"`
	Notified       *int   `json:"notified,omitempty"`
	Action         string `json:"action,omitempty"`
	SubscriptionID uint32 `json:"subscription_id,omitempty"`
	Remaining      *int   `json:"remaining,omitempty"`
}

func newExportRecord(event log.Event) exportRecord {
	rec := exportRecord{
		Timestamp: event.Timestamp.UTC().Format(timeLayout),
		AgentID:   event.AgentID,
		AgentName: event.AgentName,
		Category:  event.Category.String(),
	}
	switch {
	case event.Change != nil:
		rec.Old = jsonValue(event.Change.Old)
		rec.New = jsonValue(event.Change.New)
		rec.ExcludeID = event.Change.ExcludeID
		rec.Excluded = event.Change.Excluded
		rec.Notified = &event.Change.Notified
	case event.Subscription != nil:
		rec.Action = event.Subscription.Action.String()
		rec.SubscriptionID = event.Subscription.SubscriptionID
		rec.Remaining = &event.Subscription.Remaining
	}
	return rec
}

// jsonValue converts decoded CBOR maps, whose keys are any, into forms
// encoding/json accepts.
func jsonValue(v any) any {
	switch vv := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(vv))
		for k, val := range vv {
			m[fmt.Sprint(k)] = jsonValue(val)
		}
		return m
	case []any:
		s := make([]any, len(vv))
		for i, val := range vv {
			s[i] = jsonValue(val)
		}
		return s
	default:
		return v
	}
}

// RunExport exports the log file at path as jsonl or csv to output, or to
// w when output is empty.
func RunExport(path, format, output string, opts FilterOptions, w io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(newExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp", "agent_id", "agent_name", "category", "old", "new", "exclude_id", "excluded", "notified", "action", "subscription_id", "remaining"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		row := []string{
			event.Timestamp.UTC().Format(timeLayout),
			event.AgentID,
			event.AgentName,
			event.Category.String(),
			"", "", "", "", "", "", "", "",
		}
		switch {
		case event.Change != nil:
			row[4] = fmt.Sprint(event.Change.Old)
			row[5] = fmt.Sprint(event.Change.New)
			if event.Change.ExcludeID != 0 {
				row[6] = strconv.FormatUint(uint64(event.Change.ExcludeID), 10)
			}
			row[7] = strconv.FormatBool(event.Change.Excluded)
			row[8] = strconv.Itoa(event.Change.Notified)
		case event.Subscription != nil:
			row[9] = event.Subscription.Action.String()
			if event.Subscription.SubscriptionID != 0 {
				row[10] = strconv.FormatUint(uint64(event.Subscription.SubscriptionID), 10)
			}
			row[11] = strconv.Itoa(event.Subscription.Remaining)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
