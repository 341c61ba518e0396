package agent

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/agent-go/pkg/log"
)

// SubscriptionID identifies a registered subscriber. The zero value is never
// issued and means "exclude none" when passed to SetExcluding.
type SubscriptionID uint32

// NoExclude is the exclusion ID that suppresses no subscriber.
const NoExclude SubscriptionID = 0

// Callback is called with the new value after a change.
type Callback[T any] func(value T)

// Observer is notified when the value of an agent changes.
type Observer[T any] interface {
	// OnValueChanged is called with the new value after a change.
	OnValueChanged(value T)
}

type subscriber[T any] struct {
	fn Callback[T]
	id SubscriptionID
}

// Agent holds a value of type T and notifies subscribers when it changes.
//
// The zero Agent is not usable; create agents with New.
type Agent[T comparable] struct {
	value T

	// next is the last issued subscription ID.
	next SubscriptionID

	// subscribers is replaced, never modified in place, so a notification
	// pass keeps iterating the list it started with.
	subscribers []subscriber[T]

	lock    sync.Locker
	rlock   sync.Locker
	logger  log.Logger
	tracing bool
	name    string
	id      string
}

// New creates an agent holding initial. No notification is sent for the
// initial value.
func New[T comparable](initial T, opts ...Option) *Agent[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	_, noop := o.logger.(log.NoopLogger)

	return &Agent[T]{
		value:   initial,
		lock:    o.locker,
		rlock:   readLocker(o.locker),
		logger:  o.logger,
		tracing: !noop,
		name:    o.name,
		id:      uuid.NewString(),
	}
}

// Name returns the name set with WithName.
func (a *Agent[T]) Name() string {
	return a.name
}

// ID returns the unique identifier used in trace events.
func (a *Agent[T]) ID() string {
	return a.id
}

// Get returns the current value.
func (a *Agent[T]) Get() T {
	a.rlock.Lock()
	defer a.rlock.Unlock()
	return a.value
}

// String formats the current value.
func (a *Agent[T]) String() string {
	return fmt.Sprint(a.Get())
}

// Count returns the number of registered subscribers.
func (a *Agent[T]) Count() int {
	a.rlock.Lock()
	defer a.rlock.Unlock()
	return len(a.subscribers)
}

// Subscribe registers fn and returns its subscription ID. IDs increase
// strictly and are never reused. A nil fn is ignored and returns NoExclude.
func (a *Agent[T]) Subscribe(fn Callback[T]) SubscriptionID {
	if fn == nil {
		return NoExclude
	}

	a.lock.Lock()
	a.next++
	if a.next == NoExclude {
		a.next++
	}
	id := a.next
	a.subscribers = append(slices.Clip(a.subscribers), subscriber[T]{fn: fn, id: id})
	remaining := len(a.subscribers)
	a.lock.Unlock()

	a.logSubscription(log.ActionAttach, id, remaining)
	return id
}

// SubscribeObserver registers o and returns its subscription ID.
func (a *Agent[T]) SubscribeObserver(o Observer[T]) SubscriptionID {
	if o == nil {
		return NoExclude
	}
	return a.Subscribe(o.OnValueChanged)
}

// Unsubscribe removes the subscriber with the given ID. Unknown IDs are
// ignored.
func (a *Agent[T]) Unsubscribe(id SubscriptionID) {
	a.lock.Lock()
	idx := slices.IndexFunc(a.subscribers, func(s subscriber[T]) bool { return s.id == id })
	if idx < 0 {
		a.lock.Unlock()
		return
	}
	subs := make([]subscriber[T], 0, len(a.subscribers)-1)
	subs = append(subs, a.subscribers[:idx]...)
	subs = append(subs, a.subscribers[idx+1:]...)
	a.subscribers = subs
	remaining := len(subs)
	a.lock.Unlock()

	a.logSubscription(log.ActionDetach, id, remaining)
}

// UnsubscribeAll removes every subscriber. Subscription IDs keep increasing
// from where they were.
func (a *Agent[T]) UnsubscribeAll() {
	a.lock.Lock()
	a.subscribers = nil
	a.lock.Unlock()

	a.logSubscription(log.ActionDetachAll, NoExclude, 0)
}

// Set writes v and notifies all subscribers if it differs from the current
// value.
func (a *Agent[T]) Set(v T) {
	a.SetExcluding(v, NoExclude)
}

// SetExcluding writes v and, if it differs from the current value, notifies
// every subscriber except the one with ID exclude.
func (a *Agent[T]) SetExcluding(v T, exclude SubscriptionID) {
	a.update(func(T) T { return v }, exclude)
}

// Update computes a new value from the current one and writes it like
// SetExcluding. fn runs inside the critical section, so the read and the
// write are not interleaved with other writers. It returns the value held
// after all notifications have run.
func (a *Agent[T]) Update(fn func(current T) T, exclude SubscriptionID) T {
	_, cur := a.update(fn, exclude)
	return cur
}

// update returns the value before the write and the value held afterwards.
func (a *Agent[T]) update(fn func(T) T, exclude SubscriptionID) (old, cur T) {
	var change changeRecord[T]

	func() {
		a.lock.Lock()
		defer a.lock.Unlock()

		old = a.value
		v := fn(old)
		if old == v {
			cur = old
			return
		}

		a.value = v
		change = changeRecord[T]{changed: true, old: old, new: v, exclude: exclude}
		for _, s := range a.subscribers {
			if s.id == exclude {
				change.excluded = true
				continue
			}
			// Subscribers see the latest value, which an earlier subscriber
			// may already have rewritten.
			s.fn(a.value)
			change.notified++
		}
		cur = a.value
	}()

	if change.changed {
		a.logChange(change)
	}
	return old, cur
}

type changeRecord[T any] struct {
	changed  bool
	old      T
	new      T
	exclude  SubscriptionID
	excluded bool
	notified int
}

func (a *Agent[T]) logChange(c changeRecord[T]) {
	if !a.tracing {
		return
	}
	a.logger.Log(log.Event{
		Timestamp: time.Now(),
		AgentID:   a.id,
		AgentName: a.name,
		Category:  log.CategoryChange,
		Change: &log.ChangeEvent{
			Old:       c.old,
			New:       c.new,
			ExcludeID: uint32(c.exclude),
			Excluded:  c.excluded,
			Notified:  c.notified,
		},
	})
}

func (a *Agent[T]) logSubscription(action log.SubscriptionAction, id SubscriptionID, remaining int) {
	if !a.tracing {
		return
	}
	a.logger.Log(log.Event{
		Timestamp: time.Now(),
		AgentID:   a.id,
		AgentName: a.name,
		Category:  log.CategorySubscription,
		Subscription: &log.SubscriptionEvent{
			Action:         action,
			SubscriptionID: uint32(id),
			Remaining:      remaining,
		},
	})
}
