// Runtime configuration.
//
// Mirrors the classic detector-style env knob surface (GORACE-style): the
// layer can be muted at process start without rebuilding, debug diagnostics
// are opt-in, and the primitive's unit limit is settable for environments
// that want EAGAIN behavior at a known bound.
package api

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/kolkov/ctxspawn/thread"
)

// Config holds the env-derived runtime settings, parsed once at init.
type Config struct {
	// Disabled mutes interception entirely: every Create becomes a direct
	// pass-through with no context query. Runtime twin of the ctxspawn_off
	// build tag.
	Disabled bool `env:"CTXSPAWN_DISABLED"`

	// Debug enables per-spawn diagnostics on the slow path.
	Debug bool `env:"CTXSPAWN_DEBUG"`

	// MaxUnits caps concurrently live units (0 = unlimited). Forwarded to
	// thread.SetLimit.
	MaxUnits int `env:"CTXSPAWN_MAX_UNITS"`
}

var (
	cfg Config

	// logger is Nop unless CTXSPAWN_DEBUG is set; the hot paths never pay
	// for logging infrastructure they do not use.
	logger *zap.Logger
)

func init() {
	if err := env.Parse(&cfg); err != nil {
		// Malformed env values disable nothing silently; say so and keep
		// the zero config.
		fmt.Fprintf(os.Stderr, "ctxspawn: ignoring invalid environment: %v\n", err)
		cfg = Config{}
	}

	logger = zap.NewNop()
	if cfg.Debug {
		logger = zap.Must(zap.NewDevelopment())
	}

	if cfg.MaxUnits > 0 {
		thread.SetLimit(cfg.MaxUnits)
	}
}
