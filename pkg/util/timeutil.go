package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// LoadLocation resolves an IANA zone name, falling back to the given fixed offset
// when the zone database is unavailable (e.g. scratch containers).
func LoadLocation(name string, fallbackOffset time.Duration) *time.Location {
	if name == "" {
		return time.FixedZone("UTC", 0)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, int(fallbackOffset.Seconds()))
	}
	return loc
}

// CivilDate truncates t to midnight UTC of its calendar date in t's own location.
// Differences between two civil dates are always whole days.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
