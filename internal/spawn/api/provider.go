// Execution-context provider plumbing.
//
// The interception core does not define what a context is. It consumes the
// three-operation collaborator interface below and ships one default
// implementation backed by the per-goroutine slot registry. Alternative
// context libraries (the OpenTelemetry adapter, for one) plug in through
// SetProvider.
package api

import (
	"sync/atomic"

	"github.com/kolkov/ctxspawn/internal/spawn/gls"
)

// Provider is the collaborator interface to an execution-context library.
//
// Contract:
//   - Current returns a snapshot of the calling goroutine's context without
//     mutating anything; it must be safe at any point.
//   - HasActive reports whether a snapshot is worth propagating. The layer
//     builds no launch package when it returns false.
//   - Attach scope-activates a snapshot on the calling goroutine and returns
//     the deactivation func. The pair must be reentrant-safe, and callers
//     run the detach on every exit path including panic unwinding.
type Provider interface {
	Current() any
	HasActive(ctx any) bool
	Attach(ctx any) (detach func())
}

// Activatable lets a context value refine the propagation predicate.
//
// The layer propagates contexts that are *active*, not merely present: a
// non-nil value that implements Activatable and reports false is treated
// like no context at all and takes the fast path. Values that do not
// implement Activatable count as active by virtue of being present.
type Activatable interface {
	Active() bool
}

// glsProvider is the default Provider: opaque values in the per-goroutine
// slot, scope restoration on detach.
type glsProvider struct{}

func (glsProvider) Current() any {
	v, _ := gls.Get()
	return v
}

func (glsProvider) HasActive(ctx any) bool {
	if ctx == nil {
		return false
	}
	if a, ok := ctx.(Activatable); ok {
		return a.Active()
	}
	return true
}

func (glsProvider) Attach(ctx any) func() {
	prev, had := gls.Set(ctx)
	return func() { gls.Restore(prev, had) }
}

// providerBox wraps the installed Provider so every atomic.Value store has
// the same concrete type regardless of which implementation is installed.
type providerBox struct {
	p Provider
}

// provider holds the installed Provider. atomic.Value gives lock-free reads
// on every spawn; writes happen only at setup time.
var provider atomic.Value // of providerBox

func init() {
	provider.Store(providerBox{p: glsProvider{}})
}

// SetProvider installs p as the process's context library.
//
// Call once during setup, before spawning. A nil p restores the default
// slot-backed provider.
func SetProvider(p Provider) {
	if p == nil {
		p = glsProvider{}
	}
	provider.Store(providerBox{p: p})
}

// currentProvider returns the installed Provider.
func currentProvider() Provider {
	return provider.Load().(providerBox).p
}

// Current returns the calling goroutine's context snapshot from the
// installed provider.
func Current() any {
	return currentProvider().Current()
}

// Attach scope-activates ctx on the calling goroutine through the installed
// provider and returns the deactivation func.
func Attach(ctx any) (detach func()) {
	return currentProvider().Attach(ctx)
}
