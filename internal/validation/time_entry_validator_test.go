package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard/internal/domain"
	"timecard/internal/errors"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 4, hour, minute, 0, 0, time.UTC)
}

func entry(id string, inHour, outHour int) domain.TimeEntry {
	e := domain.NewTimeEntry("u1", at(inHour, 0), at(outHour, 0), false)
	e.ID = id
	return e
}

func TestTimeEntryValidator_ValidateManualEntry(t *testing.T) {
	validator := NewTimeEntryValidator()

	tests := []struct {
		name       string
		userID     string
		date       string
		start, end string
		notes      string
		badFields  []string
	}{
		{"valid", "u1", "2024-03-04", "09:00", "17:30", "", nil},
		{"valid with notes", "u1", "2024-03-04", "09:00", "17:30", "forgot to clock in", nil},
		{"missing user", "", "2024-03-04", "09:00", "17:30", "", []string{"user_id"}},
		{"bad date", "u1", "04/03/2024", "09:00", "17:30", "", []string{"date"}},
		{"missing date", "u1", "", "09:00", "17:30", "", []string{"date"}},
		{"bad clocks", "u1", "2024-03-04", "9am", "", "", []string{"start_time", "end_time"}},
		{"reversed range is not a format problem", "u1", "2024-03-04", "17:00", "09:00", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateManualEntry(tt.userID, tt.date, tt.start, tt.end, tt.notes)
			if tt.badFields == nil {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			for _, field := range tt.badFields {
				assert.NotEmpty(t, ve.GetFieldErrors(field), field)
			}
			assert.Len(t, ve.Errors, len(tt.badFields))
		})
	}
}

func TestTimeEntryValidator_ValidateRange(t *testing.T) {
	validator := NewTimeEntryValidator()

	assert.NoError(t, validator.ValidateRange(at(9, 0), at(9, 1)))

	for _, end := range []time.Time{at(9, 0), at(8, 59)} {
		err := validator.ValidateRange(at(9, 0), end)
		assert.ErrorIs(t, err, errors.ErrInvalidRange)
	}
}

func TestTimeEntryValidator_ValidateEditedRange(t *testing.T) {
	validator := NewTimeEntryValidator()

	assert.NoError(t, validator.ValidateEditedRange(at(9, 0), at(17, 0)))
	assert.ErrorIs(t, validator.ValidateEditedRange(at(17, 0), at(9, 0)), errors.ErrInvalidRange)

	err := validator.ValidateEditedRange(at(9, 0), at(9, 0).Add(25*time.Hour))
	assert.True(t, IsValidationError(err))
}

func TestTimeEntryValidator_ValidateEntryUpdate(t *testing.T) {
	validator := NewTimeEntryValidator()
	notes := "ok"
	badDate := "2024-13-01"
	in := at(9, 0)

	assert.NoError(t, validator.ValidateEntryUpdate(domain.EntryUpdate{Notes: &notes}))
	assert.NoError(t, validator.ValidateEntryUpdate(domain.EntryUpdate{ClockIn: &in}))
	assert.Error(t, validator.ValidateEntryUpdate(domain.EntryUpdate{}))
	assert.Error(t, validator.ValidateEntryUpdate(domain.EntryUpdate{Date: &badDate}))
}

func TestTimeEntryValidator_ValidateDateRange(t *testing.T) {
	validator := NewTimeEntryValidator()

	assert.NoError(t, validator.ValidateDateRange("", ""))
	assert.NoError(t, validator.ValidateDateRange("2024-03-01", "2024-03-31"))
	assert.Error(t, validator.ValidateDateRange("2024-03-31", "2024-03-01"))
	assert.Error(t, validator.ValidateDateRange("March", ""))
}

func TestTimeEntryValidator_ValidateMonth(t *testing.T) {
	validator := NewTimeEntryValidator()

	assert.NoError(t, validator.ValidateMonth("02", 2024))
	assert.NoError(t, validator.ValidateMonth("12", 2023))
	assert.Error(t, validator.ValidateMonth("13", 2024))
	assert.Error(t, validator.ValidateMonth("00", 2024))
	assert.Error(t, validator.ValidateMonth("02", 0))
}

func TestTimeEntryValidator_IDs(t *testing.T) {
	validator := NewTimeEntryValidator()

	assert.NoError(t, validator.ValidateTimeEntryID("e1"))
	assert.Error(t, validator.ValidateTimeEntryID(""))
	assert.NoError(t, validator.ValidateUserID("admin_id", "admin-1"))
	assert.Error(t, validator.ValidateUserID("admin_id", "admin 1"))
}

func TestTimeEntryValidator_Overlap(t *testing.T) {
	validator := NewTimeEntryValidator()
	existing := []domain.TimeEntry{entry("a", 10, 12), entry("b", 14, 15)}

	t.Run("intersecting edit is rejected", func(t *testing.T) {
		err := validator.CheckOverlap("c", at(11, 0), at(13, 0), existing)
		require.ErrorIs(t, err, errors.ErrOverlap)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		conflicting, _ := appErr.GetContext("conflicting")
		assert.Equal(t, []string{"a"}, conflicting)
	})

	t.Run("adjoining edit is accepted", func(t *testing.T) {
		assert.NoError(t, validator.CheckOverlap("c", at(12, 0), at(13, 0), existing))
	})

	t.Run("entry is not compared against itself", func(t *testing.T) {
		assert.NoError(t, validator.CheckOverlap("a", at(9, 30), at(12, 30), existing))
	})

	t.Run("all conflicts are reported", func(t *testing.T) {
		conflicting := validator.FindOverlaps("c", at(9, 0), at(16, 0), existing)
		assert.Equal(t, []string{"a", "b"}, conflicting)
	})
}
