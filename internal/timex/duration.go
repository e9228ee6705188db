// Package timex provides a time.Duration wrapper that config files and
// environment variables can spell either as "30s" or as integer nanoseconds.
package timex

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a scalar type so cleanenv calls SetValue
// for environment values.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(value)
		return nil
	case string:
		return d.parse(value)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// UnmarshalText is used by YAML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.parse(string(text))
}

// SetValue lets cleanenv fill the value from an environment variable.
func (d *Duration) SetValue(s string) error {
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}
