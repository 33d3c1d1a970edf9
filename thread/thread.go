// Package thread models the platform spawn primitive that ctxspawn
// interposes.
//
// A "thread" here is a goroutine-backed execution unit created through an
// errno-style primitive with the shape of pthread_create: an output handle
// slot, optional creation attributes, an entry point, and an opaque argument.
// Create is the unshimmed primitive — the function every call reaches once
// the interception layer has decided what to do. It is deliberately the only
// spawn path in the module, so that interposing it covers every unit the
// process creates through this package.
//
// The symbol registry binds Create under SymbolName by default, the way a
// platform library exports its real symbol. The interception layer resolves
// that binding exactly once at first use; embedders may register an override
// before first use to stand in for the real primitive (the preload analog).
//
// Error codes follow the errno convention of the primitive being modeled:
// the caller receives an int, zero on success, and the interception layer
// forwards it byte-for-byte.
package thread

import (
	"sync/atomic"
)

// SymbolName is the registry name under which the unshimmed primitive is
// exported. The interception layer resolves this name; overrides registered
// before first resolution replace the default binding.
const SymbolName = "thread.create"

// Errno-style result codes returned by Create.
const (
	// OK indicates the unit was created and is running.
	OK = 0

	// EAGAIN indicates the process-wide unit limit was reached.
	// Mirrors the resource-exhaustion failure of the modeled primitive.
	EAGAIN = 11

	// EINVAL indicates an invalid handle slot or entry point.
	EINVAL = 22
)

// Entry is the signature of a unit entry point: one opaque argument in, one
// opaque result out. Ownership of the argument follows the caller's original
// contract; this package never inspects it.
type Entry func(arg any) any

// CreateFn is the type of the spawn primitive itself. Both the unshimmed
// Create below and the interception entry point that stands in for it have
// this exact signature — substituting one for the other is invisible to
// callers.
type CreateFn func(h *Handle, attr *Attr, entry Entry, arg any) int

// Attr carries creation attributes for a new unit.
//
// Only Name is currently meaningful; it labels the unit for diagnostics.
// A nil *Attr is valid and means defaults, matching the modeled primitive's
// nil-attributes convention.
type Attr struct {
	// Name labels the unit in debug logging. Empty is fine.
	Name string
}

// Handle is the output slot Create fills in: the caller-visible identity of
// a created unit plus its join channel.
//
// A Handle must be passed to Create (directly or through the interception
// layer) before Join is called. Handles are not reusable across creations.
type Handle struct {
	id     uint64
	done   chan struct{}
	result any
}

// ID returns the process-unique identifier assigned at creation.
func (h *Handle) ID() uint64 { return h.id }

// Join blocks until the unit's entry point returns, then returns its result.
//
// The done-channel close inside the unit happens-before Join's return, so
// the result read here is properly synchronized with the unit's final write.
func (h *Handle) Join() any {
	<-h.done
	return h.result
}

// Global unit accounting.
//
// nextID hands out handle identities; active tracks live units against the
// optional limit. Both are plain atomics — there is no other shared state in
// the primitive.
var (
	nextID atomic.Uint64
	active atomic.Int64
	limit  atomic.Int64 // 0 means unlimited
)

// SetLimit installs a process-wide cap on concurrently live units.
//
// When the cap is reached, Create returns EAGAIN without starting a unit.
// Zero (the default) means unlimited. The cap exists so resource exhaustion
// is a reachable, testable failure of the primitive rather than a
// platform-dependent accident.
func SetLimit(n int) {
	limit.Store(int64(n))
}

// Active returns the number of currently live units.
func Active() int {
	return int(active.Load())
}

// Create starts a new execution unit running entry(arg) and fills in h.
//
// This is the unshimmed primitive. It performs no context handling of any
// kind — the interception layer layers that on top.
//
// Flow:
//  1. Validate the handle slot and entry point (EINVAL on nil)
//  2. Reserve a slot against the optional unit limit (EAGAIN on exhaustion)
//  3. Assign the handle identity and join channel
//  4. Start the unit; its result is published through the handle
//
// The unit's first executed user code is entry itself: nothing runs before
// it except slot bookkeeping. On success the new unit may already be running
// before Create returns, exactly like the modeled primitive.
func Create(h *Handle, _ *Attr, entry Entry, arg any) int {
	if h == nil || entry == nil {
		return EINVAL
	}

	// Reserve a slot. The increment-then-check keeps the fast path to two
	// atomic ops; over-reservation is undone before returning EAGAIN.
	if maxUnits := limit.Load(); maxUnits > 0 {
		if active.Add(1) > maxUnits {
			active.Add(-1)
			return EAGAIN
		}
	} else {
		active.Add(1)
	}

	h.id = nextID.Add(1)
	h.done = make(chan struct{})

	go func() {
		defer func() {
			active.Add(-1)
			close(h.done)
		}()
		h.result = entry(arg)
	}()

	return OK
}
