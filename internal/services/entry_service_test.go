package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard/internal/domain"
	apperrors "timecard/internal/errors"
	"timecard/internal/validation"
)

func (f *fixture) manual(t *testing.T, userID, date, start, end string) *domain.TimeEntry {
	t.Helper()
	entry, err := f.svc.EntryService.CreateManualEntry(context.Background(), ManualEntryRequest{
		UserID:    userID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return entry
}

func (f *fixture) clockAt(date string, hour, minute int) time.Time {
	day, _ := time.ParseInLocation("2006-01-02", date, f.clock.Now().Location())
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ptr[T any](v T) *T {
	return &v
}

func TestEntryService_CreateManualEntry(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	entry, err := f.svc.EntryService.CreateManualEntry(ctx, ManualEntryRequest{
		UserID:    "alice",
		Date:      "2024-02-29",
		StartTime: "09:00",
		EndTime:   "17:30",
		Notes:     "forgot to clock in",
	})

	require.NoError(t, err)
	assert.True(t, entry.IsManual)
	assert.Equal(t, 8.5, entry.TotalHours)
	assert.Equal(t, "2024-02-29", entry.Date)
	assert.True(t, entry.ClockIn.Equal(f.clockAt("2024-02-29", 9, 0)))

	stored, err := f.svc.EntryService.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "forgot to clock in", stored.Notes)
	assert.True(t, stored.IsManual)
}

func TestEntryService_CreateManualEntry_DoesNotCheckOverlap(t *testing.T) {
	f := setupServices(t)

	f.manual(t, "alice", "2024-03-04", "09:00", "12:00")
	f.manual(t, "alice", "2024-03-04", "10:00", "11:00")

	entries, err := f.svc.EntryService.ListEntriesForDate(context.Background(), "alice", "2024-03-04")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEntryService_CreateManualEntry_InvalidRange(t *testing.T) {
	dates := []string{"2024-01-01", "2024-02-29", "2023-12-31", "2024-03-10"}
	ranges := []struct {
		name  string
		start string
		end   string
	}{
		{name: "equal", start: "09:00", end: "09:00"},
		{name: "reversed", start: "17:00", end: "09:00"},
		{name: "one minute back", start: "00:01", end: "00:00"},
	}

	for _, date := range dates {
		for _, r := range ranges {
			t.Run(date+" "+r.name, func(t *testing.T) {
				f := setupServices(t)
				ctx := context.Background()

				entry, err := f.svc.EntryService.CreateManualEntry(ctx, ManualEntryRequest{
					UserID: "alice", Date: date, StartTime: r.start, EndTime: r.end,
				})

				assert.Nil(t, entry)
				assert.ErrorIs(t, err, apperrors.ErrInvalidRange)

				stored, err := f.repo.ListTimeEntries(ctx, "alice")
				require.NoError(t, err)
				assert.Empty(t, stored)
			})
		}
	}
}

func TestEntryService_CreateManualEntry_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   ManualEntryRequest
		field string
	}{
		{name: "should require a user", req: ManualEntryRequest{Date: "2024-03-04", StartTime: "09:00", EndTime: "10:00"}, field: "user_id"},
		{name: "should reject a malformed date", req: ManualEntryRequest{UserID: "alice", Date: "04/03/2024", StartTime: "09:00", EndTime: "10:00"}, field: "date"},
		{name: "should reject a malformed time", req: ManualEntryRequest{UserID: "alice", Date: "2024-03-04", StartTime: "9am", EndTime: "10:00"}, field: "start_time"},
		{name: "should require an end time", req: ManualEntryRequest{UserID: "alice", Date: "2024-03-04", StartTime: "09:00"}, field: "end_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServices(t)

			_, err := f.svc.EntryService.CreateManualEntry(context.Background(), tt.req)

			var ve *validation.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.GetFieldErrors(tt.field))
		})
	}
}

func TestEntryService_UpdateEntry_Overlap(t *testing.T) {
	tests := []struct {
		name      string
		start     [2]int
		end       [2]int
		expectErr error
		hours     float64
	}{
		{name: "should reject an edit that overlaps another entry", start: [2]int{11, 0}, end: [2]int{13, 0}, expectErr: apperrors.ErrOverlap},
		{name: "should reject an edit that contains another entry", start: [2]int{9, 0}, end: [2]int{13, 0}, expectErr: apperrors.ErrOverlap},
		{name: "should accept an exactly adjoining edit", start: [2]int{12, 0}, end: [2]int{13, 0}, hours: 1},
		{name: "should accept an edit that ends where another starts", start: [2]int{8, 0}, end: [2]int{10, 0}, hours: 2},
		{name: "should accept overlapping its own old interval", start: [2]int{13, 30}, end: [2]int{15, 45}, hours: 2.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServices(t)
			ctx := context.Background()
			a := f.manual(t, "alice", "2024-03-04", "10:00", "12:00")
			b := f.manual(t, "alice", "2024-03-04", "13:00", "14:00")
			f.manual(t, "bob", "2024-03-04", "11:00", "13:00")

			updated, err := f.svc.EntryService.UpdateEntry(ctx, "alice", b.ID, domain.EntryUpdate{
				ClockIn:  ptr(f.clockAt("2024-03-04", tt.start[0], tt.start[1])),
				ClockOut: ptr(f.clockAt("2024-03-04", tt.end[0], tt.end[1])),
			})

			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)
				appErr, ok := apperrors.AsAppError(err)
				require.True(t, ok)
				conflicting, _ := appErr.GetContext("conflicting")
				assert.Equal(t, []string{a.ID}, conflicting)

				stored, err := f.svc.EntryService.GetEntry(ctx, b.ID)
				require.NoError(t, err)
				assert.True(t, stored.ClockIn.Equal(b.ClockIn))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.hours, updated.TotalHours)
			assert.Equal(t, "2024-03-04", updated.Date)
		})
	}
}

func TestEntryService_UpdateEntry_RangeAndOwnership(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	entry := f.manual(t, "alice", "2024-03-04", "09:00", "10:00")

	_, err := f.svc.EntryService.UpdateEntry(ctx, "alice", entry.ID, domain.EntryUpdate{
		ClockOut: ptr(f.clockAt("2024-03-04", 8, 0)),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)

	_, err = f.svc.EntryService.UpdateEntry(ctx, "bob", entry.ID, domain.EntryUpdate{Notes: ptr("mine now")})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePermission))

	_, err = f.svc.EntryService.UpdateEntry(ctx, "alice", entry.ID, domain.EntryUpdate{})
	assert.True(t, validation.IsValidationError(err))

	_, err = f.svc.EntryService.UpdateEntry(ctx, "alice", "missing", domain.EntryUpdate{Notes: ptr("x")})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestEntryService_UpdateEntry_Dating(t *testing.T) {
	tests := []struct {
		name         string
		update       func(f *fixture) domain.EntryUpdate
		expectedDate string
		expectedHrs  float64
	}{
		{
			name: "should keep the date when only times move",
			update: func(f *fixture) domain.EntryUpdate {
				return domain.EntryUpdate{
					ClockIn:  ptr(f.clockAt("2024-03-04", 8, 0)),
					ClockOut: ptr(f.clockAt("2024-03-04", 12, 0)),
				}
			},
			expectedDate: "2024-03-04",
			expectedHrs:  4.0,
		},
		{
			name: "should move to an explicit date",
			update: func(f *fixture) domain.EntryUpdate {
				return domain.EntryUpdate{
					Date:     ptr("2024-03-05"),
					ClockIn:  ptr(f.clockAt("2024-03-05", 9, 0)),
					ClockOut: ptr(f.clockAt("2024-03-05", 12, 0)),
				}
			},
			expectedDate: "2024-03-05",
			expectedHrs:  3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServices(t)
			ctx := context.Background()
			entry := f.manual(t, "alice", "2024-03-04", "09:00", "10:00")

			updated, err := f.svc.EntryService.UpdateEntry(ctx, "alice", entry.ID, tt.update(f))
			require.NoError(t, err)

			assert.Equal(t, tt.expectedDate, updated.Date)
			assert.Equal(t, tt.expectedHrs, updated.TotalHours)
		})
	}
}

func TestEntryService_UpdateEntry_OvernightKeepsClosingDate(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	f.clock.Set(f.at(22, 0))
	_, err := f.svc.SessionService.StartSession(ctx, "alice")
	require.NoError(t, err)
	f.clock.Advance(8 * time.Hour)
	entry, err := f.svc.SessionService.StopSession(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "2024-03-05", entry.Date)

	updated, err := f.svc.EntryService.UpdateEntry(ctx, "alice", entry.ID, domain.EntryUpdate{
		ClockOut: ptr(f.clockAt("2024-03-05", 7, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", updated.Date)
	assert.Equal(t, 9.0, updated.TotalHours)

	onDay, err := f.svc.EntryService.ListEntriesForDate(ctx, "alice", "2024-03-05")
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, entry.ID, onDay[0].ID)
}

func TestEntryService_UpdateEntry_ClearsNotesAndAttribution(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	entry, err := f.svc.EntryService.CreateManualEntry(ctx, ManualEntryRequest{
		UserID: "alice", Date: "2024-03-04", StartTime: "09:00", EndTime: "10:00", Notes: "draft",
	})
	require.NoError(t, err)

	_, err = f.svc.EntryService.UpdateEntryAsAdmin(ctx, entry.ID, domain.EntryUpdate{Notes: ptr("checked")}, "boss")
	require.NoError(t, err)

	updated, err := f.svc.EntryService.UpdateEntry(ctx, "alice", entry.ID, domain.EntryUpdate{Notes: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Notes)
	assert.Empty(t, updated.UpdatedBy)

	stored, err := f.repo.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Notes)
	assert.Nil(t, stored.UpdatedBy)
}

func TestEntryService_UpdateEntryAsAdmin_NotesOnly(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	_, err := f.svc.SessionService.StartSession(ctx, "alice")
	require.NoError(t, err)
	f.clock.Set(f.at(17, 30))
	entry, err := f.svc.SessionService.StopSession(ctx, "alice")
	require.NoError(t, err)

	updated, err := f.svc.EntryService.UpdateEntryAsAdmin(ctx, entry.ID, domain.EntryUpdate{Notes: ptr("approved")}, "boss")

	require.NoError(t, err)
	assert.Equal(t, "boss", updated.UpdatedBy)
	assert.Equal(t, "approved", updated.Notes)
	assert.True(t, updated.ClockIn.Equal(entry.ClockIn))
	require.NotNil(t, updated.ClockOut)
	assert.True(t, updated.ClockOut.Equal(*entry.ClockOut))
	assert.Equal(t, entry.TotalHours, updated.TotalHours)
	assert.Equal(t, entry.Date, updated.Date)

	record, ok := f.logger.Find("admin correction")
	require.True(t, ok)
	admin, _ := record.Attr("admin_id")
	assert.Equal(t, "boss", admin)
	_, ok = f.logger.Find("admin correction overlaps existing entries")
	assert.False(t, ok)
}

func TestEntryService_UpdateEntryAsAdmin_BypassesOverlap(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	a := f.manual(t, "alice", "2024-03-04", "10:00", "12:00")
	b := f.manual(t, "alice", "2024-03-04", "13:00", "14:00")

	updated, err := f.svc.EntryService.UpdateEntryAsAdmin(ctx, b.ID, domain.EntryUpdate{
		ClockIn: ptr(f.clockAt("2024-03-04", 11, 0)),
	}, "boss")

	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.TotalHours)
	assert.Equal(t, "boss", updated.UpdatedBy)

	record, ok := f.logger.Find("admin correction overlaps existing entries")
	require.True(t, ok)
	assert.Equal(t, "warn", record.Level)
	conflicting, _ := record.Attr("conflicting")
	assert.Equal(t, []string{a.ID}, conflicting)
}

func TestEntryService_UpdateEntryAsAdmin_StillChecksRange(t *testing.T) {
	f := setupServices(t)
	entry := f.manual(t, "alice", "2024-03-04", "10:00", "12:00")

	_, err := f.svc.EntryService.UpdateEntryAsAdmin(context.Background(), entry.ID, domain.EntryUpdate{
		ClockIn: ptr(f.clockAt("2024-03-04", 12, 0)),
	}, "boss")

	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)
}

func TestEntryService_Delete(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	mine := f.manual(t, "alice", "2024-03-04", "09:00", "10:00")
	theirs := f.manual(t, "bob", "2024-03-04", "09:00", "10:00")

	err := f.svc.EntryService.DeleteEntry(ctx, "alice", theirs.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePermission))

	require.NoError(t, f.svc.EntryService.DeleteEntry(ctx, "alice", mine.ID))
	require.NoError(t, f.svc.EntryService.DeleteEntryAsAdmin(ctx, theirs.ID, "boss"))

	all, err := f.svc.EntryService.ListAllEntries(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, all)

	record, ok := f.logger.Find("admin deleted entry")
	require.True(t, ok)
	user, _ := record.Attr("user_id")
	assert.Equal(t, "bob", user)

	err = f.svc.EntryService.DeleteEntry(ctx, "alice", mine.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestEntryService_Lists(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	first := f.manual(t, "alice", "2024-03-01", "09:00", "10:00")
	second := f.manual(t, "alice", "2024-03-04", "09:00", "10:00")
	other := f.manual(t, "bob", "2024-03-04", "08:00", "10:00")

	entries, err := f.svc.EntryService.ListEntries(ctx, "alice", "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, ids(entries))

	all, err := f.svc.EntryService.ListAllEntries(ctx, "2024-03-04", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, other.ID}, ids(all))

	_, err = f.svc.EntryService.ListEntries(ctx, "alice", "2024-03-31", "2024-03-01")
	assert.True(t, validation.IsValidationError(err))

	_, err = f.svc.EntryService.ListEntriesForDate(ctx, "alice", "yesterday")
	assert.True(t, validation.IsValidationError(err))
}
