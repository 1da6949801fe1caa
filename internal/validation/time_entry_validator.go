package validation

import (
	"time"

	"timecard/internal/config"
	"timecard/internal/domain"
	"timecard/internal/errors"
	"timecard/internal/timeutil"
)

// TimeEntryValidator provides validation for TimeEntry-related operations
type TimeEntryValidator struct {
	validator *Validator
}

// NewTimeEntryValidator creates a new time entry validator
func NewTimeEntryValidator() *TimeEntryValidator {
	return &TimeEntryValidator{
		validator: NewValidator(),
	}
}

// NewTimeEntryValidatorWithConfig creates a validator using configured limits
func NewTimeEntryValidatorWithConfig(cfg *config.Config) *TimeEntryValidator {
	return &TimeEntryValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateManualEntry checks the raw fields of a manual entry request.
// The time range itself is checked by ValidateRange once the instants
// are known.
func (tev *TimeEntryValidator) ValidateManualEntry(userID, date, startTime, endTime, notes string) error {
	validationError := NewValidationError()

	tev.checkIdentifier(validationError, "user_id", userID)

	if date == "" {
		validationError.AddRequiredError("date")
	} else if !tev.validator.IsValidDate(date) {
		validationError.AddInvalidFormatError("date", date, "YYYY-MM-DD")
	}

	tev.checkClock(validationError, "start_time", startTime)
	tev.checkClock(validationError, "end_time", endTime)

	if !tev.validator.IsValidNotesLength(notes) {
		validationError.AddInvalidLengthError("notes", notes, tev.validator.getMaxNotesLength())
	}

	return validationError.OrNil()
}

// ValidateRange rejects an interval whose end is not after its start with
// an InvalidRange error.
func (tev *TimeEntryValidator) ValidateRange(start, end time.Time) error {
	if !tev.validator.IsValidTimeRange(start, end) {
		return errors.NewInvalidRangeError(start, end)
	}
	return nil
}

// ValidateEditedRange applies ValidateRange plus the maximum entry length.
func (tev *TimeEntryValidator) ValidateEditedRange(start, end time.Time) error {
	if err := tev.ValidateRange(start, end); err != nil {
		return err
	}
	if !tev.validator.IsValidDuration(end.Sub(start)) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("duration", end.Sub(start).String(),
			"must not exceed "+tev.validator.getMaxDuration().String())
		return validationError
	}
	return nil
}

// ValidateEntryUpdate checks the fields present in a partial update
func (tev *TimeEntryValidator) ValidateEntryUpdate(update domain.EntryUpdate) error {
	validationError := NewValidationError()

	if update.IsEmpty() {
		validationError.AddInvalidValueError("update", nil, "no fields to change")
	}
	if update.Date != nil && !tev.validator.IsValidDate(*update.Date) {
		validationError.AddInvalidFormatError("date", *update.Date, "YYYY-MM-DD")
	}
	if update.Notes != nil && !tev.validator.IsValidNotesLength(*update.Notes) {
		validationError.AddInvalidLengthError("notes", *update.Notes, tev.validator.getMaxNotesLength())
	}

	return validationError.OrNil()
}

// ValidateDateRange validates optional YYYY-MM-DD bounds
func (tev *TimeEntryValidator) ValidateDateRange(from, to string) error {
	validationError := NewValidationError()

	if from != "" && !tev.validator.IsValidDate(from) {
		validationError.AddInvalidFormatError("from", from, "YYYY-MM-DD")
	}
	if to != "" && !tev.validator.IsValidDate(to) {
		validationError.AddInvalidFormatError("to", to, "YYYY-MM-DD")
	}
	if !validationError.HasErrors() && !tev.validator.IsValidDateRange(from, to) {
		validationError.AddInvalidValueError("date_range", from+".."+to, "from must not be after to")
	}

	return validationError.OrNil()
}

// ValidateMonth validates a report month ("3" or "03") and year
func (tev *TimeEntryValidator) ValidateMonth(month string, year int) error {
	validationError := NewValidationError()

	if _, err := timeutil.ParseMonth(month); err != nil {
		validationError.AddInvalidValueError("month", month, "must be between 01 and 12")
	}
	if year < 1 || year > 9999 {
		validationError.AddInvalidValueError("year", year, "must be a four digit year")
	}

	return validationError.OrNil()
}

// ValidateUserID validates a staff or admin identifier
func (tev *TimeEntryValidator) ValidateUserID(field, id string) error {
	validationError := NewValidationError()
	tev.checkIdentifier(validationError, field, id)
	return validationError.OrNil()
}

// ValidateTimeEntryID validates a time entry ID
func (tev *TimeEntryValidator) ValidateTimeEntryID(id string) error {
	return tev.ValidateUserID("entry_id", id)
}

func (tev *TimeEntryValidator) checkIdentifier(ve *ValidationError, field, id string) {
	if !tev.validator.IsNonEmptyString(id) {
		ve.AddRequiredError(field)
	} else if !tev.validator.IsValidIdentifier(id) {
		ve.AddInvalidCharacterError(field, id)
	}
}

func (tev *TimeEntryValidator) checkClock(ve *ValidationError, field, value string) {
	if value == "" {
		ve.AddRequiredError(field)
	} else if !tev.validator.IsValidClock(value) {
		ve.AddInvalidFormatError(field, value, "HH:MM")
	}
}

// FindOverlaps returns the ids of entries whose interval intersects
// [start, end). The entry identified by entryID is never reported against
// itself.
func (tev *TimeEntryValidator) FindOverlaps(entryID string, start, end time.Time, existing []domain.TimeEntry) []string {
	var conflicting []string
	for _, other := range existing {
		if other.ID == entryID {
			continue
		}
		if other.Overlaps(start, end) {
			conflicting = append(conflicting, other.ID)
		}
	}
	return conflicting
}

// CheckOverlap fails with an Overlap error when FindOverlaps reports anything.
func (tev *TimeEntryValidator) CheckOverlap(entryID string, start, end time.Time, existing []domain.TimeEntry) error {
	if conflicting := tev.FindOverlaps(entryID, start, end, existing); len(conflicting) > 0 {
		return errors.NewOverlapError(entryID, conflicting)
	}
	return nil
}
