package agent

import "sync"

// NoopLocker is the default critical section. It assumes the agent is only
// used from a single thread of control.
type NoopLocker struct{}

// Lock does nothing.
func (NoopLocker) Lock() {}

// Unlock does nothing.
func (NoopLocker) Unlock() {}

// Compile-time interface satisfaction check.
var _ sync.Locker = NoopLocker{}

// funcLocker adapts an acquire/release pair to sync.Locker.
type funcLocker struct {
	acquire func()
	release func()
}

func (l funcLocker) Lock() {
	if l.acquire != nil {
		l.acquire()
	}
}

func (l funcLocker) Unlock() {
	if l.release != nil {
		l.release()
	}
}

// CriticalSection returns a sync.Locker that calls acquire on Lock and
// release on Unlock. A nil function is treated as a no-op.
//
// On a microcontroller this typically maps to disabling and re-enabling
// interrupts:
//
//	var state interrupt.State
//	agent.WithLocker(agent.CriticalSection(
//		func() { state = interrupt.Disable() },
//		func() { interrupt.Restore(state) },
//	))
func CriticalSection(acquire, release func()) sync.Locker {
	return funcLocker{acquire: acquire, release: release}
}

// readLocker returns the locker Get brackets with: the read side when l
// offers one (e.g. *sync.RWMutex), otherwise l itself.
func readLocker(l sync.Locker) sync.Locker {
	if rw, ok := l.(interface{ RLocker() sync.Locker }); ok {
		return rw.RLocker()
	}
	return l
}
