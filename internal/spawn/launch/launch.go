// Package launch implements the single-owner bundle that carries a captured
// execution context and the real work across a spawn boundary.
//
// The source pattern here is boxing {entry, arg, context} and smuggling the
// box through the primitive's opaque-argument channel. Re-expressed in Go,
// the box becomes a Package and the raw pointer becomes a Token: an owned
// handle whose Unpack method is the only legal way to consume the bundle.
// A Token is consumed exactly once — a second Unpack panics, because a
// second consumer would mean the ownership transfer was violated somewhere.
//
// Ownership timeline:
//
//	creator: Pack() ───► primitive's arg channel ───► new unit: Unpack()
//	                │
//	                └─► creation failed: Release() (ownership never left)
//
// The spawn itself is the synchronization edge: everything the creator wrote
// into the Package happens-before the new unit's Unpack (Go memory model
// guarantee on goroutine creation).
//
// Atomic construction/consumption/release counters back the layer's
// leak-freedom tests: for every Pack there is exactly one Unpack or exactly
// one Release, never both, never neither.
package launch

import "sync/atomic"

// Package bundles the three things that must cross the spawn boundary
// together: the caller's original entry point, the caller's original
// argument (opaque, ownership untouched by this layer), and one captured
// execution-context snapshot.
//
// A Package is never constructed on the fast path, never shared, and never
// outlives its single consumption.
type Package struct {
	entry func(arg any) any
	arg   any
	ctx   any
}

// Token is the transferable owned handle for a Package.
//
// Exactly one of Unpack or Release must be called on a Token, exactly once.
// The zero Token is invalid. Tokens must not be copied; consumption goes
// through the pointer identity that crossed the boundary.
type Token struct {
	noCopy noCopy

	pkg *Package
}

// Lifecycle counters for the leak/exactly-once properties.
var (
	packs    atomic.Uint64
	unpacks  atomic.Uint64
	releases atomic.Uint64
)

// Pack constructs a Package and hands back its owning Token.
//
// Pure construction, no side effects beyond the counter. The context
// snapshot must already be captured — Pack runs on the creator, and the
// snapshot must not alias state the creator may mutate after spawning.
func Pack(entry func(arg any) any, arg, ctx any) *Token {
	packs.Add(1)
	return &Token{pkg: &Package{entry: entry, arg: arg, ctx: ctx}}
}

// Unpack consumes the Token and returns the bundled fields.
//
// This is the only legal consumption path and it is valid exactly once:
// the Token is dead afterwards and a second Unpack panics. Called by the
// trampoline as the new unit's first real work.
func (t *Token) Unpack() (entry func(arg any) any, arg, ctx any) {
	p := t.pkg
	if p == nil {
		panic("ctxspawn: launch token consumed twice")
	}
	t.pkg = nil
	unpacks.Add(1)
	return p.entry, p.arg, p.ctx
}

// Release frees a Token whose Package was never transferred, i.e. the
// underlying creation call failed and ownership stayed with the creator.
//
// Releasing an already-consumed Token panics for the same reason a double
// Unpack does: it means two parties believed they owned the bundle.
func (t *Token) Release() {
	if t.pkg == nil {
		panic("ctxspawn: released a consumed launch token")
	}
	t.pkg = nil
	releases.Add(1)
}

// Stats is a snapshot of the lifecycle counters.
type Stats struct {
	Packed   uint64 // Packages constructed
	Unpacked uint64 // Packages consumed by a trampoline
	Released uint64 // Packages freed after a failed creation
}

// Outstanding reports bundles currently owned by someone: packed but neither
// consumed nor released. Zero means no leaks at a quiescent point.
func (s Stats) Outstanding() uint64 {
	return s.Packed - s.Unpacked - s.Released
}

// ReadStats returns the current lifecycle counters.
func ReadStats() Stats {
	return Stats{
		Packed:   packs.Load(),
		Unpacked: unpacks.Load(),
		Released: releases.Load(),
	}
}

// noCopy triggers `go vet -copylocks` on Token copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
