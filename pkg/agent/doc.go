// Package agent implements an observable value for device firmware and
// controllers.
//
// An Agent holds a single value and a list of subscribers. Writing a value
// that differs from the current one updates the agent and calls every
// subscriber synchronously, in the order they subscribed, before the write
// returns. Writing an equal value does nothing.
//
// # Subscription IDs
//
// Subscribe returns an ID that is unique for the lifetime of the agent. IDs
// start at 1 and are never reused, even after Unsubscribe. The zero ID is
// reserved and means "exclude none".
//
// # Echo Suppression
//
// A subscriber that reacts to a change by writing back to the same agent
// passes its own ID to SetExcluding so it is not notified of its own echo:
//
//	var id agent.SubscriptionID
//	id = setpoint.Subscribe(func(v float64) {
//	    if v > 30 {
//	        setpoint.SetExcluding(30, id)
//	    }
//	})
//
// Equality-based de-duplication ends such chains once a fixed point is
// reached. Cycles between two or more agents that keep writing different
// values to each other are not detected.
//
// # Critical Section
//
// Subscription changes and writes are bracketed by a sync.Locker supplied
// with WithLocker. The default is NoopLocker, which assumes a single thread
// of control. CriticalSection adapts a pair of functions, such as interrupt
// disable and enable, to the hook. The complete compare, assign and notify
// sequence of a write runs inside the critical section, so callbacks must be
// short, must not block and must not acquire the same lock again.
//
// # Arithmetic and Comparison
//
// Go has no operator overloading. The free functions in this package (Inc,
// AddAssign, Less, Add, ...) provide the same operations on top of Get and
// Update, so compound writes follow the same change detection as Set.
package agent
