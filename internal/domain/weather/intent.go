package weather

import (
	"regexp"
	"strings"
)

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// ParseParams extracts key=value pairs from the first bracketed command in text,
// e.g. "[city=Shanghai, date=2026-02-04]". Model output is untrusted, so parsing is
// tolerant: no brackets yields an empty map and pairs without '=' are skipped.
func ParseParams(text string) map[string]string {
	params := make(map[string]string)
	match := bracketPattern.FindStringSubmatch(text)
	if match == nil {
		return params
	}
	for _, part := range strings.Split(match[1], ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

// IntentFromParams reports false unless both city and date are present and non-blank.
func IntentFromParams(params map[string]string) (Intent, bool) {
	city := strings.TrimSpace(params["city"])
	date := strings.TrimSpace(params["date"])
	if city == "" || date == "" {
		return Intent{}, false
	}
	return Intent{City: city, Date: date}, true
}
