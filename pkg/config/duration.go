package config

import (
	"time"

	"github.com/matzehuels/livelayout/pkg/errors"
)

// Duration wraps time.Duration so it decodes from strings such as "10ms".
type Duration struct {
	time.Duration
}

// DurationFrom avoids unkeyed Duration literals.
func DurationFrom(d time.Duration) Duration {
	return Duration{d}
}

// UnmarshalText parses a time.ParseDuration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", string(b))
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as time.Duration.String does.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
