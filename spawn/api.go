// Package spawn provides the public API for ctxspawn.
//
// See doc.go for detailed documentation and examples.
package spawn

import (
	"fmt"

	"github.com/google/uuid"

	internal "github.com/kolkov/ctxspawn/internal/spawn/api"
	"github.com/kolkov/ctxspawn/thread"
)

// Provider is the collaborator interface to an execution-context library.
//
// The default provider stores opaque context values in a per-goroutine slot.
// Install an alternative (for example the OpenTelemetry adapter in package
// otelspawn) with SetProvider before spawning.
type Provider = internal.Provider

// Activatable refines the propagation predicate for custom context values:
// only contexts reporting Active() == true are propagated. See the Provider
// documentation in the otelspawn package for an example.
type Activatable = internal.Activatable

// Create is the interception entry point: signature-identical to
// thread.Create, with transparent context propagation layered in.
//
// If the calling goroutine has an active context, the new unit observes that
// context for the dynamic extent of entry; otherwise this is a direct
// pass-through to the unshimmed primitive. The return code and the handle
// slot are forwarded byte-for-byte from the underlying call either way.
//
// The ctxspawn tool rewrites go statements to route through this entry
// point. Manual call sites use it exactly like thread.Create:
//
//	var h thread.Handle
//	if rc := spawn.Create(&h, nil, work, arg); rc != thread.OK {
//		// same errno thread.Create would have returned
//	}
//	result := h.Join()
func Create(h *thread.Handle, attr *thread.Attr, entry thread.Entry, arg any) int {
	return internal.Create(h, attr, entry, arg)
}

// Go runs fn on a new execution unit with the caller's active context
// propagated. This is the form the ctxspawn tool emits for rewritten go
// statements:
//
//	// Original code:
//	go handle(conn)
//
//	// Rewritten code:
//	spawn.Go(func() { handle(conn) })
//
// Go panics if the unit cannot be created, matching the go statement's
// inability to report failure.
func Go(fn func()) {
	var h thread.Handle
	if rc := Create(&h, nil, func(any) any { fn(); return nil }, nil); rc != thread.OK {
		panic(fmt.Sprintf("ctxspawn: cannot create execution unit: errno %d", rc))
	}
}

// GoHandle is Go with a joinable handle and a result.
func GoHandle(fn func() any) (*thread.Handle, int) {
	h := new(thread.Handle)
	rc := Create(h, nil, func(any) any { return fn() }, nil)
	if rc != thread.OK {
		return nil, rc
	}
	return h, thread.OK
}

// SetProvider installs p as the process's context library. Call once during
// setup, before any spawns. A nil p restores the default provider.
func SetProvider(p Provider) {
	internal.SetProvider(p)
}

// Current returns the calling goroutine's context snapshot, or nil.
func Current() any {
	return internal.Current()
}

// Attach scope-activates ctx on the calling goroutine and returns the
// deactivation func. Always pair with a defer:
//
//	detach := spawn.Attach(ctx)
//	defer detach()
//
// Deactivation restores the previously active context (or none), on every
// exit path.
func Attach(ctx any) (detach func()) {
	return internal.Attach(ctx)
}

// TraceContext is the default provider's context value: an opaque identity
// standing in for "what is logically executing now" when no real tracing
// library is wired in.
type TraceContext struct {
	// ID is the context identity compared by propagation tests and logged
	// by diagnostics.
	ID uuid.UUID

	// Name labels the context for humans. Not part of identity.
	Name string
}

// NewTraceContext mints an active context with a fresh identity.
func NewTraceContext(name string) TraceContext {
	return TraceContext{ID: uuid.New(), Name: name}
}

// Active reports whether the context carries a live identity. The zero
// TraceContext is inactive and is not propagated.
func (c TraceContext) Active() bool {
	return c.ID != uuid.Nil
}
