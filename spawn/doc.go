// Package spawn makes a creator's active execution context automatically
// visible inside units it spawns, without the spawned code accepting or
// forwarding anything.
//
// Spawn primitives have no concept of "context": whatever tracing or
// execution state is attached to the creating goroutine is normally
// invisible on the other side of a spawn, which breaks causal links in
// observability data. This package closes that gap by interposing the spawn
// primitive: it captures the creator's active context, carries it across the
// boundary in a single-owner launch package, and reactivates it inside the
// new unit for exactly the duration of the original work.
//
// # Quick Start
//
// The ctxspawn tool rewrites go statements automatically:
//
//	$ ctxspawn build main.go
//	$ ./main
//
// For manual call sites:
//
//	package main
//
//	import "github.com/kolkov/ctxspawn/spawn"
//
//	func main() {
//		detach := spawn.Attach(spawn.NewTraceContext("request-42"))
//		defer detach()
//
//		spawn.Go(func() {
//			// spawn.Current() here observes "request-42"
//		})
//	}
//
// # How It Works
//
// Every spawn routed through this package takes one of two paths:
//
//   - Fast path: the creator has no active context. The call goes straight
//     to the unshimmed primitive with zero extra allocation.
//   - Slow path: the creator's context is captured synchronously (before the
//     creation call returns, so later mutations by the creator are
//     invisible), bundled with the original entry point and argument, and
//     the new unit runs a trampoline first: reactivate, run the original
//     entry, deactivate on every exit path.
//
// The unshimmed primitive is resolved exactly once per process, under a
// once-only guard that tolerates arbitrary startup races. If it cannot be
// resolved the layer fails loudly rather than silently disabling spawning.
//
// # Binding Strategies
//
// Two interchangeable strategies route call sites through the interception
// entry point:
//
//   - Dynamic substitution: register an override for thread.SymbolName
//     before first use (embedding environments, tests).
//   - Build-time redirection: the ctxspawn tool rewrites go statements in
//     source to call [Go], leaving the unshimmed primitive reachable under
//     its fixed name.
//
// Callers cannot distinguish the two: same inputs, same fast/slow-path
// behavior, same forwarded results and failure codes.
//
// # Context Libraries
//
// The context model is pluggable through [Provider]. The default provider
// tracks opaque values per goroutine; package otelspawn adapts OpenTelemetry
// span contexts. The propagation predicate is "active", not "present": a
// context value implementing [Activatable] and reporting false takes the
// fast path.
//
// # Compatibility
//
// Build with -tags ctxspawn_off to compile the layer down to an inert
// pass-through, or set CTXSPAWN_DISABLED=1 to mute it at runtime.
package spawn
