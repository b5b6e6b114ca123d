package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// The ids used as references map the zero value, meaning no association, to NULL.

func (id CountryID) Value() (driver.Value, error) { return nullable(int64(id)) }
func (id TeamID) Value() (driver.Value, error)    { return nullable(int64(id)) }
func (id PilotID) Value() (driver.Value, error)   { return nullable(int64(id)) }
func (id RaceID) Value() (driver.Value, error)    { return nullable(int64(id)) }

func (id *CountryID) Scan(src any) error { return scanID((*int64)(id), src) }
func (id *TeamID) Scan(src any) error    { return scanID((*int64)(id), src) }
func (id *PilotID) Scan(src any) error   { return scanID((*int64)(id), src) }
func (id *RaceID) Scan(src any) error    { return scanID((*int64)(id), src) }

func nullable(id int64) (driver.Value, error) {
	if id == 0 {
		return nil, nil //nolint:nilnil // NULL is a valid value
	}

	return id, nil
}

func scanID(dst *int64, src any) error {
	switch v := src.(type) {
	case nil:
		*dst = 0
	case int64:
		*dst = v
	case int32:
		*dst = int64(v)
	case []byte:
		return scanID(dst, string(v))
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidID, err)
		}

		*dst = id
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidID, src)
	}

	return nil
}

// ParseID parses the decimal representation of an id, e.g. from a path parameter.
func ParseID[ID ~int64](s string) (ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	return ID(id), nil
}
