package otelspawn

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kolkov/ctxspawn/spawn"
)

// newTestTracer builds an in-memory tracer provider with no exporter —
// spans are created for identity only and never leave the process.
func newTestTracer(t *testing.T) trace.Tracer {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp.Tracer("otelspawn_test")
}

// TestHasActivePredicate verifies only contexts with a valid span context
// are considered active.
func TestHasActivePredicate(t *testing.T) {
	tracer := newTestTracer(t)
	spanCtx, span := tracer.Start(context.Background(), "parent")
	defer span.End()

	tests := []struct {
		name string
		ctx  any
		want bool
	}{
		{"nil", nil, false},
		{"not a context", 42, false},
		{"background", context.Background(), false},
		{"span context", spanCtx, true},
	}

	var p Provider
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.HasActive(tt.ctx); got != tt.want {
				t.Errorf("HasActive(%v) = %v, want %v", tt.ctx, got, tt.want)
			}
		})
	}
}

// TestSpawnPropagatesSpan is the end-to-end property the whole layer exists
// for: the span active at the call site is the span the child observes.
func TestSpawnPropagatesSpan(t *testing.T) {
	Install()
	defer spawn.SetProvider(nil)

	tracer := newTestTracer(t)
	ctx, span := tracer.Start(context.Background(), "parent")
	defer span.End()
	parentID := trace.SpanContextFromContext(ctx).SpanID()

	detach := Attach(ctx)
	defer detach()

	childID := make(chan trace.SpanID, 1)
	spawn.Go(func() {
		childID <- trace.SpanContextFromContext(Current()).SpanID()
	})

	if got := <-childID; got != parentID {
		t.Errorf("child observed span %s, want parent span %s", got, parentID)
	}
}

// TestBackgroundContextTakesFastPath verifies a span-free context is not
// propagated: the child sees no attached context at all.
func TestBackgroundContextTakesFastPath(t *testing.T) {
	Install()
	defer spawn.SetProvider(nil)

	detach := Attach(context.Background())
	defer detach()

	observed := make(chan any, 1)
	spawn.Go(func() {
		observed <- spawn.Current()
	})

	if got := <-observed; got != nil {
		t.Errorf("child observed %v, want nil (no valid span to propagate)", got)
	}
}

// TestCurrentFallsBackToBackground verifies Current is always usable as a
// span parent even with nothing attached.
func TestCurrentFallsBackToBackground(t *testing.T) {
	if got := Current(); got == nil {
		t.Error("Current() = nil, want context.Background()")
	}
}

// TestNestedSpanScopes verifies detach unwinds to the enclosing span.
func TestNestedSpanScopes(t *testing.T) {
	tracer := newTestTracer(t)

	outerCtx, outerSpan := tracer.Start(context.Background(), "outer")
	defer outerSpan.End()
	innerCtx, innerSpan := tracer.Start(outerCtx, "inner")
	defer innerSpan.End()

	detachOuter := Attach(outerCtx)
	detachInner := Attach(innerCtx)

	if got := trace.SpanContextFromContext(Current()).SpanID(); got != trace.SpanContextFromContext(innerCtx).SpanID() {
		t.Errorf("Current() span = %s, want inner", got)
	}
	detachInner()
	if got := trace.SpanContextFromContext(Current()).SpanID(); got != trace.SpanContextFromContext(outerCtx).SpanID() {
		t.Errorf("after inner detach span = %s, want outer", got)
	}
	detachOuter()
}
