package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time truncated to the stored precision.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ensureID assigns a fresh identity when id is empty.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

func stampIfZero(ts ...*time.Time) {
	now := nowUTC()
	for _, t := range ts {
		if t.IsZero() {
			*t = now
		}
	}
}
