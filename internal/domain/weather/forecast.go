package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

type forecastWire struct {
	City      string        `json:"city"`
	Forecasts []ForecastDay `json:"forecasts"`
}

// flexNumber accepts temperatures encoded either as JSON numbers or strings ("12.0").
type flexNumber string

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = flexNumber(s)
		return nil
	}
	if string(data) == "null" {
		*n = ""
		return nil
	}
	*n = flexNumber(data)
	return nil
}

func (n flexNumber) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
}

// ParseForecast extracts the forecast at offset from a maps_weather document.
func ParseForecast(doc ForecastDocument, offset int) (Success, error) {
	var wire forecastWire
	if err := json.Unmarshal([]byte(doc.Text), &wire); err != nil {
		return Success{}, malformed("decode forecast document", err)
	}
	if wire.Forecasts == nil {
		return Success{}, malformed("forecast document has no forecasts", nil)
	}
	if offset < 0 || offset >= len(wire.Forecasts) {
		return Success{}, malformed(fmt.Sprintf("forecast offset %d out of range (have %d days)", offset, len(wire.Forecasts)), nil)
	}

	day := wire.Forecasts[offset]
	dayTemp, err := day.DayTempFloat.Float()
	if err != nil {
		return Success{}, malformed("parse daytemp_float", err)
	}
	nightTemp, err := day.NightTempFloat.Float()
	if err != nil {
		return Success{}, malformed("parse nighttemp_float", err)
	}

	return Success{
		City:         wire.City,
		Date:         day.Date,
		DayTemp:      dayTemp,
		NightTemp:    nightTemp,
		Weather:      day.DayWeather,
		NightWeather: day.NightWeather,
		Wind:         day.DayWind,
		WindPower:    day.DayPower,
	}, nil
}

func malformed(message string, err error) error {
	return apperrors.Wrap(apperrors.CodeMalformedForecast, message, err)
}
