// Version variables are injected at build time through -ldflags, e.g.
// -X github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo.Version=v1.2.0

package bininfo

// Name is the service name reported to tracing, profiling and error reporting.
const Name = "dddorok-admin"

var (
	// Version is the SemVer version of the binary, optionally suffixed with +<git commit>.
	Version = "v0.0.0"

	// BuildTime is the time at which the binary was built.
	BuildTime = "1970-01-01T00:00:00Z"
)
