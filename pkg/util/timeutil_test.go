package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCivilDateIgnoresClockAndZone(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*60*60)
	late := time.Date(2026, 2, 4, 23, 59, 0, 0, shanghai)
	early := time.Date(2026, 2, 4, 0, 1, 0, 0, shanghai)

	require.Equal(t, CivilDate(early), CivilDate(late))
	require.Equal(t, time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC), CivilDate(late))
}

func TestLoadLocationFallback(t *testing.T) {
	loc := LoadLocation("Not/AZone", 8*time.Hour)
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	require.Equal(t, 8*60*60, offset)
}
