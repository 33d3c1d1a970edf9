//go:build !ctxspawn_off

// Package api implements the interception core for ctxspawn.
//
// Create below stands in for the platform spawn primitive with the exact
// signature of thread.Create. Call sites reach it through either binding
// strategy — dynamic substitution (resolver registration before first use)
// or build-time redirection (the ctxspawn CLI rewriting go statements) — and
// the two are indistinguishable from the caller's side.
//
// Flow per call:
//
//	caller ──► Create ──► context query
//	               │  no active context (fast path)
//	               ├────────────────────────────► resolved primitive(entry, arg)
//	               │  active context (slow path)
//	               └─► launch.Pack ─────────────► resolved primitive(trampoline, token)
//	                                                        │ new unit
//	                                                        ▼
//	                                              trampoline: Unpack, Attach,
//	                                              entry(arg), detach
//
// The fast path allocates no launch package and adds exactly one context
// query and one (cached) resolver lookup over calling the primitive
// directly. The slow path's package is released by the creator when the
// underlying creation call fails, so creation failures never leak.
package api

import (
	"go.uber.org/zap"

	"github.com/kolkov/ctxspawn/internal/spawn/launch"
	"github.com/kolkov/ctxspawn/internal/spawn/resolver"
	"github.com/kolkov/ctxspawn/thread"
)

// Create is the interception entry point.
//
// Inputs and result are those of thread.Create, byte-for-byte: no parameter
// is added, no error kind is introduced, and whatever code the underlying
// primitive returns is forwarded unchanged. Callers are unaware the shim
// exists.
//
// Context capture happens synchronously on the creator, before the
// underlying creation call: the snapshot cannot observe anything the
// creator does to its own context after spawning.
func Create(h *thread.Handle, attr *thread.Attr, entry thread.Entry, arg any) int {
	real := resolver.Resolve()

	if cfg.Disabled {
		return real(h, attr, entry, arg)
	}

	p := currentProvider()
	ctx := p.Current()

	// Fast path: nothing active to propagate. Straight through, zero
	// allocation, no trampoline indirection.
	if !p.HasActive(ctx) {
		return real(h, attr, entry, arg)
	}

	// Slow path: bundle the real work with the captured snapshot and let
	// the trampoline run first in the new unit.
	tok := launch.Pack(entry, arg, ctx)

	if cfg.Debug {
		logger.Debug("propagating context across spawn",
			zap.Any("ctx", ctx),
			zap.String("unit", attrName(attr)))
	}

	rc := real(h, attr, trampoline, tok)
	if rc != thread.OK {
		// Ownership never transferred; the creator frees the bundle and
		// forwards the primitive's own failure code.
		tok.Release()
	}
	return rc
}

// trampoline is the replacement entry point that runs as the new unit's
// first user code.
//
// It reclaims sole ownership of the launch package, reactivates the captured
// context for exactly the dynamic extent of the original entry point, and
// returns that entry point's result unmodified. The deferred detach runs on
// every exit path, panic unwinding included, so a unit reused afterwards
// observes no residual context.
func trampoline(raw any) any {
	entry, arg, ctx := raw.(*launch.Token).Unpack()

	detach := currentProvider().Attach(ctx)
	defer detach()

	return entry(arg)
}

func attrName(attr *thread.Attr) string {
	if attr == nil {
		return ""
	}
	return attr.Name
}
