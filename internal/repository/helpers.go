package repository

import (
	"database/sql"
	"time"
)

const dateLayout = "2006-01-02"

// parseNullableTime reads an optional date column. Unparseable values read
// as unset.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString stores nil as NULL.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

func nullableStrToValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func parseNullableStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// timestampLayout keeps fractional seconds at a fixed width so stored
// timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
