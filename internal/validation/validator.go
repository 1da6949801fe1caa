package validation

import (
	"strings"
	"time"
	"unicode"

	"timecard/internal/config"
	"timecard/internal/timeutil"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidIdentifier accepts user and entry ids: non-empty, no whitespace or
// control characters.
func (v *Validator) IsValidIdentifier(id string) bool {
	if id == "" {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}

// IsValidDate checks for a YYYY-MM-DD calendar date
func (v *Validator) IsValidDate(s string) bool {
	_, err := time.Parse(timeutil.DateLayout, s)
	return err == nil
}

// IsValidClock checks for an HH:MM time of day
func (v *Validator) IsValidClock(s string) bool {
	_, err := time.Parse(timeutil.ClockLayout, s)
	return err == nil
}

// IsValidTimeRange checks that end is strictly after start
func (v *Validator) IsValidTimeRange(start, end time.Time) bool {
	return end.After(start)
}

// IsValidDuration checks if a duration is within configured bounds
func (v *Validator) IsValidDuration(duration time.Duration) bool {
	return duration > 0 && duration <= v.getMaxDuration()
}

// IsValidNotesLength checks notes against the configured maximum
func (v *Validator) IsValidNotesLength(notes string) bool {
	return len([]rune(notes)) <= v.getMaxNotesLength()
}

// IsValidDateRange checks that from is not after to; open ends are valid
func (v *Validator) IsValidDateRange(from, to string) bool {
	if from == "" || to == "" {
		return true
	}
	return from <= to
}

// getMaxDuration returns configured maximum duration or default
func (v *Validator) getMaxDuration() time.Duration {
	if v.config != nil {
		return v.config.Validation.MaxEntryDuration
	}
	return 24 * time.Hour // Default maximum
}

// getMaxNotesLength returns configured maximum notes length or default
func (v *Validator) getMaxNotesLength() int {
	if v.config != nil {
		return v.config.Validation.MaxNotesLength
	}
	return 1000 // Default maximum
}
