package timeline

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every configuration validation failure.
var ErrInvalid = errors.New("invalid timeline configuration")

func invalidf(name, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", name, ErrInvalid, fmt.Sprintf(format, args...))
}
