package log

import (
	"fmt"
	"strings"
	"time"
)

// Event is a trace record emitted by an agent.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AgentID uniquely identifies the agent instance (UUID).
	AgentID string `cbor:"2,keyasint"`

	// AgentName is the optional name given to the agent.
	AgentName string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Change       *ChangeEvent       `cbor:"10,keyasint,omitempty"`
	Subscription *SubscriptionEvent `cbor:"11,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryChange indicates a value change.
	CategoryChange Category = 0
	// CategorySubscription indicates a subscriber list change.
	CategorySubscription Category = 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryChange:
		return "CHANGE"
	case CategorySubscription:
		return "SUBSCRIPTION"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "change":
		return CategoryChange, nil
	case "subscription", "sub":
		return CategorySubscription, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: change, subscription)", ErrUnknownCategory, s)
	}
}

// ChangeEvent captures a write that altered the value.
type ChangeEvent struct {
	// Old is the value before the write.
	Old any `cbor:"1,keyasint"`

	// New is the value that was written.
	New any `cbor:"2,keyasint"`

	// ExcludeID is the subscription that was asked to be skipped (0 for none).
	ExcludeID uint32 `cbor:"3,keyasint,omitempty"`

	// Excluded is true if a registered subscriber was actually skipped.
	Excluded bool `cbor:"4,keyasint,omitempty"`

	// Notified is the number of subscribers called.
	Notified int `cbor:"5,keyasint"`
}

// SubscriptionEvent captures a change to the subscriber list.
type SubscriptionEvent struct {
	// Action is what happened to the list.
	Action SubscriptionAction `cbor:"1,keyasint"`

	// SubscriptionID is the affected subscriber (0 for detach-all).
	SubscriptionID uint32 `cbor:"2,keyasint,omitempty"`

	// Remaining is the number of subscribers after the action.
	Remaining int `cbor:"3,keyasint"`
}

// SubscriptionAction indicates what happened to the subscriber list.
type SubscriptionAction uint8

const (
	// ActionAttach indicates a subscriber was added.
	ActionAttach SubscriptionAction = 0
	// ActionDetach indicates a subscriber was removed.
	ActionDetach SubscriptionAction = 1
	// ActionDetachAll indicates all subscribers were removed.
	ActionDetachAll SubscriptionAction = 2
)

// String returns the action name.
func (a SubscriptionAction) String() string {
	switch a {
	case ActionAttach:
		return "ATTACH"
	case ActionDetach:
		return "DETACH"
	case ActionDetachAll:
		return "DETACH_ALL"
	default:
		return "UNKNOWN"
	}
}
