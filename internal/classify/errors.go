package classify

import "github.com/pkg/errors"

// ErrInvalidArgument marks a caller-side contract violation: a raster that is
// not N×N, a score vector that does not line up with the labels, or an empty
// configuration.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
