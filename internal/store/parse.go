package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Free-form magnitude and duration parsing. Both parsers degrade to 0 on
// any input they cannot make sense of; they never fail.

var durationPattern = regexp.MustCompile(`(\d+\.?\d*)\s*(hour|hr|h|day|d|week|w|min|m)`)

// ParseMarketCap parses strings like "500M", "1.2B", "50K" or "$1,000"
// into a USD value. Unparseable input yields 0.
func ParseMarketCap(s string) float64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	suffixes := []struct {
		token string
		mult  float64
	}{
		{"K", 1_000},
		{"M", 1_000_000},
		{"B", 1_000_000_000},
	}
	for _, suffix := range suffixes {
		if strings.Contains(s, suffix.token) {
			n, err := strconv.ParseFloat(strings.ReplaceAll(s, suffix.token, ""), 64)
			if err != nil {
				return 0
			}
			return n * suffix.mult
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseHours parses strings like "3 days", "12 hours", "1 week" or
// "30 min" into hours. No recognizable number+unit yields 0.
func ParseHours(s string) float64 {
	m := durationPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch m[2] {
	case "hour", "hr", "h":
		return value
	case "day", "d":
		return value * 24
	case "week", "w":
		return value * 24 * 7
	case "min", "m":
		return value / 60
	}
	return value
}

// FormatMarketCap renders a USD value as a compact display string.
func FormatMarketCap(value float64) string {
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("$%.0fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.0fK", value/1_000)
	}
	return fmt.Sprintf("$%.0f", value)
}

// FormatHours renders an hour count as weeks, days or hours.
func FormatHours(hours float64) string {
	switch {
	case hours >= 168:
		return fmt.Sprintf("%.1f weeks", hours/168)
	case hours >= 24:
		return fmt.Sprintf("%.1f days", hours/24)
	}
	return fmt.Sprintf("%.0f hours", hours)
}
