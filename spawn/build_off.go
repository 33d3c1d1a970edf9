//go:build ctxspawn_off

package spawn

// Build-time strategy identification for the inert pass-through build.
const (
	buildStrategy = "inert pass-through"
	buildEnabled  = false
)
