package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "command with surrounding text",
			text: "blah [city=Chengdu, date=0000] trailing",
			want: map[string]string{"city": "Chengdu", "date": "0000"},
		},
		{
			name: "iso date and padding",
			text: "[ city = Shanghai ,date=2026-02-04 ]",
			want: map[string]string{"city": "Shanghai", "date": "2026-02-04"},
		},
		{
			name: "no brackets",
			text: "I think you want Beijing today",
			want: map[string]string{},
		},
		{
			name: "pairs without equals are skipped",
			text: "[city=Beijing, tomorrow, date=0000]",
			want: map[string]string{"city": "Beijing", "date": "0000"},
		},
		{
			name: "value keeps later equals signs",
			text: "[city=a=b]",
			want: map[string]string{"city": "a=b"},
		},
		{
			name: "first bracket wins",
			text: "[city=Hangzhou, date=0000] or [city=Suzhou, date=0000]",
			want: map[string]string{"city": "Hangzhou", "date": "0000"},
		},
		{
			name: "empty brackets do not match",
			text: "[] nothing here",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ParseParams(tt.text))
		})
	}
}

func TestIntentFromParams(t *testing.T) {
	intent, ok := IntentFromParams(map[string]string{"city": "Chengdu", "date": "0000"})
	require.True(t, ok)
	require.Equal(t, Intent{City: "Chengdu", Date: "0000"}, intent)

	_, ok = IntentFromParams(map[string]string{"city": "Chengdu"})
	require.False(t, ok)

	_, ok = IntentFromParams(map[string]string{})
	require.False(t, ok)

	_, ok = IntentFromParams(ParseParams("[city=, date=0000]"))
	require.False(t, ok, "blank city counts as missing")

	_, ok = IntentFromParams(map[string]string{"city": "Chengdu", "date": "  "})
	require.False(t, ok, "blank date counts as missing")
}
