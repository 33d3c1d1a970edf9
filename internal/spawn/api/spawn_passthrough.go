//go:build ctxspawn_off

// Package api - inert build variant.
//
// Selected with -tags ctxspawn_off for targets where interposition is
// unwanted. Create degenerates to the unshimmed primitive: no context query,
// no resolver, no trampoline. Externally it is thread.Create under another
// name.
package api

import "github.com/kolkov/ctxspawn/thread"

// Create is the inert pass-through: calls the unshimmed primitive directly.
func Create(h *thread.Handle, attr *thread.Attr, entry thread.Entry, arg any) int {
	return thread.Create(h, attr, entry, arg)
}
