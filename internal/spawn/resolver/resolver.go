// Package resolver locates and caches the unshimmed spawn primitive.
//
// This is the dlsym(RTLD_NEXT) analog of the interception layer. A small
// process-wide symbol table maps names to spawn primitives; the thread
// package's real Create is bound under thread.SymbolName by default, and an
// embedding environment may rebind it before first use (the preload analog).
//
// Resolution runs exactly once per process, no matter how many units race to
// spawn at startup. After the first Resolve the cached entry point is
// immutable and shared read-only by every caller. A missing binding is fatal
// by design: falling back to a no-op would silently break every subsequent
// spawn in the process, which is strictly worse than failing loudly.
package resolver

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kolkov/ctxspawn/thread"
)

// Symbol table state.
//
// table holds pre-resolution bindings and is only written before or instead
// of the first Resolve; resolved and resolveOnce implement the once-only
// cache. resolutions counts executions of the lookup body itself, which is
// how tests prove the happens-once property.
var (
	tableMu sync.Mutex
	table   = map[string]thread.CreateFn{
		thread.SymbolName: thread.Create,
	}

	resolveOnce sync.Once
	resolved    thread.CreateFn

	resolutions atomic.Uint64
)

// Register binds fn under name in the symbol table.
//
// Registering thread.SymbolName before the first Resolve replaces the real
// primitive for the whole process — the moral equivalent of injecting a
// shimmed library ahead of the real one in symbol search order. Registering
// after the first Resolve has no effect on the cached entry point; the
// resolved primitive is immutable for the life of the process.
//
// A nil fn removes the binding, which makes the fatal missing-symbol path
// reachable in tests.
func Register(name string, fn thread.CreateFn) {
	tableMu.Lock()
	defer tableMu.Unlock()
	if fn == nil {
		delete(table, name)
		return
	}
	table[name] = fn
}

// Resolve returns the cached spawn primitive, performing the table lookup
// exactly once under concurrent first use.
//
// All racing first callers either perform or wait for the single lookup and
// observe the same outcome; sync.Once provides the exclusive once-only
// initialization and the release/acquire edge that makes the cached value
// safe to read without further locking.
//
// Resolve panics if thread.SymbolName is unbound. That failure is fatal on
// purpose (see the package comment): there is no degraded value this layer
// could return that would not silently disable spawning process-wide.
func Resolve() thread.CreateFn {
	resolveOnce.Do(func() {
		resolutions.Add(1)

		tableMu.Lock()
		fn, ok := table[thread.SymbolName]
		tableMu.Unlock()

		if !ok {
			panic(fmt.Sprintf("ctxspawn: cannot resolve original spawn primitive %q; "+
				"spawning is broken process-wide", thread.SymbolName))
		}
		resolved = fn
	})
	return resolved
}

// Resolutions reports how many times the lookup body has executed.
// It is exactly 1 after any number of Resolve calls, and 0 before the first.
func Resolutions() uint64 {
	return resolutions.Load()
}

// ResetForTesting discards the cached resolution and restores the default
// binding so a test can exercise first-use behavior again.
//
// Production code never calls this: the resolved primitive lives for the
// process. Same escape hatch the standard library uses for process-lived
// state (flag.ResetForTesting).
func ResetForTesting() {
	tableMu.Lock()
	table = map[string]thread.CreateFn{
		thread.SymbolName: thread.Create,
	}
	tableMu.Unlock()

	resolveOnce = sync.Once{}
	resolved = nil
	resolutions.Store(0)
}
