package cli

import (
	"strings"
	"time"

	"github.com/tj/go-naturaldate"

	"timecard/internal/errors"
	"timecard/internal/timeutil"
)

// resolveDate accepts a YYYY-MM-DD date or a relative phrase such as
// "today", "yesterday" or "3 days ago", read backwards from now.
func resolveDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.NewInvalidInputError("date", input, "date is required")
	}
	if _, err := time.Parse(timeutil.DateLayout, input); err == nil {
		return input, nil
	}
	if strings.EqualFold(input, "today") {
		return timeutil.FormatDate(now), nil
	}

	t, err := naturaldate.Parse(input, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil || t.Equal(now) {
		return "", errors.NewInvalidInputError("date", input, "expected YYYY-MM-DD or a phrase like yesterday")
	}
	return timeutil.FormatDate(t.In(now.Location())), nil
}
