// File: internal/usecase/fields.go
package usecase

import (
	"strconv"
	"time"
)

// Replies cap list output; older rows past the cap are summarized instead.
const listDisplayLimit = 20

// listFetchLimit is what we ask the order system for per list query.
const listFetchLimit = 100

func fieldFloat(m map[string]string, key string) float64 {
	v, err := strconv.ParseFloat(m[key], 64)
	if err != nil {
		return 0
	}
	return v
}

func fieldInt(m map[string]string, key string) int {
	v, err := strconv.Atoi(m[key])
	if err != nil {
		return 0
	}
	return v
}

// fmtAmount renders a float the way users typed it: no trailing zeros.
func fmtAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtWhen(t time.Time) string {
	return t.Format("1/2/2006, 3:04:05 PM")
}

func fmtShortDate(t time.Time) string {
	return t.Format("1/2")
}

func orEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
