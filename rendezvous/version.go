package rendezvous

import "github.com/kolkov/rendezvous/internal/rdv/futex"

// engineName is the blocking engine selected by the build tags.
const engineName = futex.Name

// Version information for the rendezvous library.
const (
	// Version is the current library version.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the library build.
type Info struct {
	// Version is the library version string.
	Version string

	// Engine names the blocking engine compiled in: "futex" on Linux,
	// "parking lot" elsewhere and under the purego build tag.
	Engine string
}

// GetInfo returns information about the rendezvous library.
//
// Example:
//
//	info := rendezvous.GetInfo()
//	fmt.Printf("rendezvous %s (%s)\n", info.Version, info.Engine)
func GetInfo() Info {
	return Info{
		Version: Version,
		Engine:  engineName,
	}
}
