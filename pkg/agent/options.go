package agent

import (
	"sync"

	"github.com/mash-protocol/agent-go/pkg/log"
)

// Option configures an Agent.
type Option func(*options)

type options struct {
	locker sync.Locker
	logger log.Logger
	name   string
}

func defaultOptions() options {
	return options{
		locker: NoopLocker{},
		logger: log.NoopLogger{},
	}
}

// WithLocker sets the critical section that brackets subscription changes
// and writes. A nil locker keeps the default NoopLocker.
func WithLocker(l sync.Locker) Option {
	return func(o *options) {
		if l != nil {
			o.locker = l
		}
	}
}

// WithLogger sets the trace logger that receives change and subscription
// events. A nil logger disables tracing.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName sets a human-readable name used in trace events.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
