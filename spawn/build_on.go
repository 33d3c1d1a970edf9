//go:build !ctxspawn_off

package spawn

// Build-time strategy identification for the default (intercepting) build.
const (
	buildStrategy = "dynamic resolution + build-time redirection"
	buildEnabled  = true
)
