// Package secret masks sensitive configuration values, like database passwords,
// so they do not leak through logs, JSON output, or fmt verbs.
package secret

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

const mask = "******"

var ErrScan = errors.New("could not scan secret")

func New(value string) Secret {
	return Secret{value: &value}
}

// Secret keeps its value behind a pointer, so that printing the struct
// with %+v or reflection does not reveal it.
type Secret struct {
	value *string
}

// Secret returns the unmasked value.
func (s Secret) Secret() string {
	if s.value == nil {
		return ""
	}

	return *s.value
}

// IsZero reports whether no value was ever set.
func (s Secret) IsZero() bool {
	return s.value == nil
}

func (s Secret) String() string {
	return mask
}

func (s Secret) GoString() string {
	return mask
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(mask) //nolint:wrapcheck // export the underlying error
}

func (s *Secret) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err //nolint:wrapcheck // export the underlying error
	}

	s.value = &raw

	return nil
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(mask), nil
}

// UnmarshalText is used by viper's decode hook to read secrets from config files and env vars.
func (s *Secret) UnmarshalText(data []byte) error {
	raw := string(data)
	s.value = &raw

	return nil
}

func (s *Secret) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		s.value = nil
	case string:
		s.value = &v
	case []byte:
		raw := string(v)
		s.value = &raw
	default:
		return ErrScan
	}

	return nil
}

func (s Secret) Value() (driver.Value, error) {
	if s.value == nil {
		return nil, nil //nolint:nilnil // a missing secret is stored as NULL
	}

	return *s.value, nil
}
