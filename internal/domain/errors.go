package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVersionOverflow is returned when the component a mode bumps is already
// at its maximum value.
var ErrVersionOverflow = errors.New("version component overflow")

// VersionFormatError is returned when a string is not a recognised version.
type VersionFormatError struct {
	Version string
	Err     error
}

func (e *VersionFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to extract version information from %q: %v", e.Version, e.Err)
	}
	return fmt.Sprintf("unable to extract version information from %q", e.Version)
}

func (e *VersionFormatError) Unwrap() error {
	return e.Err
}

// InvalidModeError is returned for an unrecognised mode token.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return fmt.Sprintf("incorrect mode %q, choose one of: %s", e.Mode, strings.Join(names, ","))
}
