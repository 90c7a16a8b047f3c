package sprout

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidParameter is returned when a config, topology or script value
	// is out of range. Invalid configs are rejected before anything starts.
	ErrInvalidParameter = errors.New("sprout: invalid parameter")

	// ErrSurfaceUnavailable is returned by Render when there is no drawing
	// surface. The lifecycle keeps running, so onDone still fires.
	ErrSurfaceUnavailable = errors.New("sprout: drawing surface unavailable")

	// ErrInvalidScript is returned by LoadTestScript for malformed scripts.
	ErrInvalidScript = errors.New("sprout: invalid test script")
)

// invalidf wraps ErrInvalidParameter with a formatted detail message.
func invalidf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidParameter, format, args...)
}
