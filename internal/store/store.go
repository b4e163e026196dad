// Package store holds the client-side state: the content store, the
// registrations store, the identity probe, and local draft persistence.
//
// Each store owns its slots exclusively; no two stores write the same slot.
// Stores are constructed once per session and passed by reference to the
// views that need them (no ambient globals).
package store

// Notify delivers a transient user-facing notification. Stores call it on
// every failure (and some successes) before returning the error to the
// caller, so no operation fails silently.
type Notify func(msg string)

func (n Notify) send(msg string) {
	if n != nil {
		n(msg)
	}
}
