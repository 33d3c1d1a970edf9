package spawn

// Version information for ctxspawn.
const (
	// Version is the current version of the propagation runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the propagation layer.
type Info struct {
	// Version is the runtime version string.
	Version string

	// Strategy names the binding strategy compiled into this build.
	Strategy string

	// Enabled indicates whether interception is compiled in.
	Enabled bool
}

// GetInfo returns information about the propagation runtime.
//
// Example:
//
//	info := spawn.GetInfo()
//	fmt.Printf("ctxspawn %s (%s)\n", info.Version, info.Strategy)
func GetInfo() Info {
	return Info{
		Version:  Version,
		Strategy: buildStrategy,
		Enabled:  buildEnabled,
	}
}
