// Package gls provides the per-goroutine slot that backs the default
// execution-context provider.
//
// Each goroutine may hold at most one opaque context value. The slot map is
// a sync.Map keyed by goroutine ID: reads of an existing key are lock-free,
// and writes only happen when a context is attached or detached, which is
// rare relative to queries. Entries are removed eagerly on detach, so a
// goroutine that is reused for unrelated work after a scope ends observes an
// empty slot, not a stale context.
package gls

import "sync"

// slots maps goroutine ID -> the goroutine's current context value.
// Key: int64 (goroutine ID). Value: any (opaque context).
var slots sync.Map

// Get returns the calling goroutine's current context value, if any.
func Get() (any, bool) {
	return slots.Load(getGoroutineID())
}

// Set installs v as the calling goroutine's context value and returns the
// previous value for scope restoration.
func Set(v any) (prev any, hadPrev bool) {
	gid := getGoroutineID()
	prev, hadPrev = slots.Load(gid)
	slots.Store(gid, v)
	return prev, hadPrev
}

// Restore reinstates a value previously returned by Set. When there was no
// previous value the slot is cleared entirely, leaving no residue for
// whatever runs on this goroutine next.
func Restore(prev any, hadPrev bool) {
	gid := getGoroutineID()
	if hadPrev {
		slots.Store(gid, prev)
		return
	}
	slots.Delete(gid)
}

// Clear removes the calling goroutine's slot.
func Clear() {
	slots.Delete(getGoroutineID())
}
