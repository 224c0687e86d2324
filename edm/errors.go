package edm

import "github.com/pkg/errors"

// ErrInvalidArgument is the root cause of every error returned for malformed
// or out-of-range search parameters. All validation happens before any search
// work begins.
var ErrInvalidArgument = errors.New("invalid argument")

// IsInvalidArgument reports whether err was caused by parameter validation.
func IsInvalidArgument(err error) bool {
	return errors.Cause(err) == ErrInvalidArgument
}

func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
