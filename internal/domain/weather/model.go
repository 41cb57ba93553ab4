package weather

import (
	"time"

	"github.com/yanqian/outfit-advisor/pkg/retry"
)

const (
	// TodayToken is the date token the intent prompt uses for "today".
	TodayToken = "0000"
	// HorizonDays is how far ahead the forecast provider reaches (today + 4 days).
	HorizonDays = 4
)

// Intent is the city/date pair extracted from the user's request.
type Intent struct {
	City string
	Date string
}

// ForecastDocument is the raw text payload returned by the forecast tool.
type ForecastDocument struct {
	Text string
}

// ForecastDay is one entry of the provider's forecasts array.
type ForecastDay struct {
	Date           string     `json:"date"`
	Week           string     `json:"week"`
	DayWeather     string     `json:"dayweather"`
	NightWeather   string     `json:"nightweather"`
	DayTempFloat   flexNumber `json:"daytemp_float"`
	NightTempFloat flexNumber `json:"nighttemp_float"`
	DayWind        string     `json:"daywind"`
	NightWind      string     `json:"nightwind"`
	DayPower       string     `json:"daypower"`
}

// Result is the outcome of a weather lookup: either Success or Failure.
type Result interface {
	isResult()
}

// Success carries the forecast for the requested city and day.
type Success struct {
	City         string  `json:"city"`
	Date         string  `json:"date"`
	DayTemp      float64 `json:"day_temp"`
	NightTemp    float64 `json:"night_temp"`
	Weather      string  `json:"weather"`
	NightWeather string  `json:"night_weather,omitempty"`
	Wind         string  `json:"wind"`
	WindPower    string  `json:"wind_power"`
}

// Failure means the request could not be mapped onto the forecast horizon.
// Reason is diagnostic only.
type Failure struct {
	Reason string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Config wires runtime dependencies for the weather agent.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Prompt      string
	Location    *time.Location
	Retry       retry.Policy
	ToolTimeout time.Duration
}
