package weather

import (
	"time"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

const isoDate = "2006-01-02"

// ResolveOffset turns a date token into a day offset from today. TodayToken maps to 0;
// an ISO date maps to the number of calendar days between today (in today's location)
// and that date, negative for the past.
func ResolveOffset(token string, today time.Time) (int, error) {
	if token == TodayToken {
		return 0, nil
	}
	target, err := time.Parse(isoDate, token)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDateFormat, "date must be "+TodayToken+" or YYYY-MM-DD", err)
	}
	days := util.CivilDate(target).Sub(util.CivilDate(today)) / (24 * time.Hour)
	return int(days), nil
}

// WithinHorizon reports whether the offset can be served by the forecast.
func WithinHorizon(offset int) bool {
	return offset >= 0 && offset <= HorizonDays
}
