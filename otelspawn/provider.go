// Package otelspawn adapts OpenTelemetry span contexts to the ctxspawn
// propagation layer.
//
// OpenTelemetry's Go API carries the active span inside a context.Context
// that must be passed explicitly. This adapter keeps the goroutine's current
// context.Context in the per-goroutine slot instead, so spans survive spawn
// boundaries without any plumbing in the spawned code:
//
//	otelspawn.Install()
//
//	ctx, span := tracer.Start(context.Background(), "parent")
//	defer span.End()
//
//	detach := otelspawn.Attach(ctx)
//	defer detach()
//
//	spawn.Go(func() {
//		// otelspawn.Current() carries the "parent" span here.
//		_, child := tracer.Start(otelspawn.Current(), "child")
//		child.End()
//	})
//
// The propagation predicate follows the span, not the context value: only a
// context whose span context IsValid() is propagated, so background contexts
// and ended recording scopes take the interception fast path.
package otelspawn

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/kolkov/ctxspawn/internal/spawn/gls"
	"github.com/kolkov/ctxspawn/spawn"
)

// Provider implements spawn.Provider over context.Context values carrying
// OpenTelemetry spans.
type Provider struct{}

var _ spawn.Provider = Provider{}

// Current returns the calling goroutine's context.Context snapshot, or nil.
func (Provider) Current() any {
	v, ok := gls.Get()
	if !ok {
		return nil
	}
	return v
}

// HasActive reports whether ctx is a context.Context carrying a valid span
// context. Anything else — nil, a foreign value, a context with no span —
// is not propagated.
func (Provider) HasActive(ctx any) bool {
	c, ok := ctx.(context.Context)
	if !ok || c == nil {
		return false
	}
	return trace.SpanContextFromContext(c).IsValid()
}

// Attach installs ctx as the goroutine's current context and returns the
// restoring detach.
func (Provider) Attach(ctx any) func() {
	prev, had := gls.Set(ctx)
	return func() { gls.Restore(prev, had) }
}

// Install makes this adapter the process's context library.
// Call once during setup, before spawning.
func Install() {
	spawn.SetProvider(Provider{})
}

// Attach is the typed convenience for activating an OpenTelemetry context on
// the calling goroutine. Always pair with a defer:
//
//	detach := otelspawn.Attach(ctx)
//	defer detach()
func Attach(ctx context.Context) (detach func()) {
	return Provider{}.Attach(ctx)
}

// Current returns the calling goroutine's active OpenTelemetry context,
// falling back to context.Background() when none is attached. The result is
// always usable as a span parent.
func Current() context.Context {
	v, ok := gls.Get()
	if !ok {
		return context.Background()
	}
	c, ok := v.(context.Context)
	if !ok || c == nil {
		return context.Background()
	}
	return c
}
