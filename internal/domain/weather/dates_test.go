package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

var shanghai = time.FixedZone("Asia/Shanghai", 8*60*60)

func TestResolveOffset(t *testing.T) {
	today := time.Date(2026, 2, 4, 23, 30, 0, 0, shanghai)
	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "sentinel", token: TodayToken, want: 0},
		{name: "same day", token: "2026-02-04", want: 0},
		{name: "two days ahead", token: "2026-02-06", want: 2},
		{name: "across month end", token: "2026-03-01", want: 25},
		{name: "past date", token: "2026-02-01", want: -3},
		{name: "ten days ahead", token: "2026-02-14", want: 10},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveOffset(tt.token, today)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOffsetSentinelIgnoresToday(t *testing.T) {
	for _, today := range []time.Time{time.Time{}, time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), time.Now()} {
		got, err := ResolveOffset(TodayToken, today)
		require.NoError(t, err)
		require.Zero(t, got)
	}
}

func TestResolveOffsetUsesLocalCalendarDay(t *testing.T) {
	// 2026-02-05 01:00 in Shanghai is still 2026-02-04 in UTC.
	today := time.Date(2026, 2, 5, 1, 0, 0, 0, shanghai)
	got, err := ResolveOffset("2026-02-05", today)
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestResolveOffsetRejectsGarbage(t *testing.T) {
	for _, token := range []string{"tomorrow", "2026/02/04", "2026-13-01", ""} {
		_, err := ResolveOffset(token, time.Now())
		require.Error(t, err, token)
		require.True(t, apperrors.IsCode(err, apperrors.CodeDateFormat), token)
	}
}

func TestWithinHorizon(t *testing.T) {
	require.False(t, WithinHorizon(-1))
	require.True(t, WithinHorizon(0))
	require.True(t, WithinHorizon(4))
	require.False(t, WithinHorizon(5))
}
