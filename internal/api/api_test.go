package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard/internal/errors"
	"timecard/internal/services"
	"timecard/internal/testutil"
)

// setupTestEngine creates an engine over an in-memory database with a
// stopped clock at Monday 2024-03-04 09:00 UTC.
func setupTestEngine(t *testing.T) (Engine, *testutil.StubClock, *testutil.RecordingLogger) {
	t.Helper()
	repo := testutil.NewRepository(t, testutil.NewStubIDGenerator())
	clock := testutil.FixedClock()
	logger := testutil.NewRecordingLogger()
	return New(repo, services.Options{Clock: clock, Logger: logger}), clock, logger
}

func str(s string) *string {
	return &s
}

func TestEngine_ClockInClockOut(t *testing.T) {
	// Arrange
	engine, clock, _ := setupTestEngine(t)
	ctx := context.Background()

	_, err := engine.ClockIn(ctx, "alice")
	require.NoError(t, err)

	// Act
	clock.Advance(8*time.Hour + 30*time.Minute)
	entry, err := engine.ClockOut(ctx, "alice")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 8.5, entry.TotalHours)
	assert.False(t, entry.IsManual)

	status, err := engine.GetStatus(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Nil(t, status.Session)
}

func TestEngine_GetStatus(t *testing.T) {
	engine, clock, _ := setupTestEngine(t)
	ctx := context.Background()

	_, err := engine.ClockIn(ctx, "alice")
	require.NoError(t, err)
	clock.Advance(90 * time.Minute)

	status, err := engine.GetStatus(ctx, "alice")

	require.NoError(t, err)
	assert.True(t, status.Active)
	require.NotNil(t, status.Session)
	assert.Equal(t, 1.5, status.ElapsedHours)
	assert.Equal(t, "1h 30m", status.Elapsed)
}

func TestEngine_ListActiveSessions(t *testing.T) {
	engine, clock, _ := setupTestEngine(t)
	ctx := context.Background()

	_, err := engine.ClockIn(ctx, "bob")
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)
	_, err = engine.ClockIn(ctx, "alice")
	require.NoError(t, err)

	active, err := engine.ListActiveSessions(ctx)

	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "alice", active[0].Session.UserID)
	assert.Equal(t, "0m", active[0].Elapsed)
	assert.Equal(t, "bob", active[1].Session.UserID)
	assert.Equal(t, 0.75, active[1].ElapsedHours)
	assert.Equal(t, "45m", active[1].Elapsed)
}

func TestEngine_ErrorsAreAppErrors(t *testing.T) {
	tests := []struct {
		name      string
		call      func(e Engine) error
		errorType errors.ErrorType
	}{
		{
			name: "should return no active session when clocking out idle",
			call: func(e Engine) error {
				_, err := e.ClockOut(context.Background(), "alice")
				return err
			},
			errorType: errors.ErrorTypeNoActiveSession,
		},
		{
			name: "should return validation error when user is missing",
			call: func(e Engine) error {
				_, err := e.ClockIn(context.Background(), "")
				return err
			},
			errorType: errors.ErrorTypeValidation,
		},
		{
			name: "should return validation error for a bad manual entry",
			call: func(e Engine) error {
				_, err := e.CreateManualEntry(context.Background(), ManualEntryRequest{UserID: "alice", Date: "2024-3-4"})
				return err
			},
			errorType: errors.ErrorTypeValidation,
		},
		{
			name: "should return invalid range for reversed times",
			call: func(e Engine) error {
				_, err := e.CreateManualEntry(context.Background(), ManualEntryRequest{
					UserID: "alice", Date: "2024-03-04", StartTime: "10:00", EndTime: "09:00",
				})
				return err
			},
			errorType: errors.ErrorTypeInvalidRange,
		},
		{
			name: "should return not found for a missing entry",
			call: func(e Engine) error {
				_, err := e.GetEntry(context.Background(), "missing")
				return err
			},
			errorType: errors.ErrorTypeNotFound,
		},
		{
			name: "should return validation error for a bad report month",
			call: func(e Engine) error {
				_, err := e.GetMonthlyReport(context.Background(), "alice", "Alice", "00", 2024)
				return err
			},
			errorType: errors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := setupTestEngine(t)

			err := tt.call(engine)

			require.Error(t, err)
			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.True(t, appErr.IsType(tt.errorType), "got %s", appErr.Type)
		})
	}
}

func TestEngine_EditEntry(t *testing.T) {
	engine, _, _ := setupTestEngine(t)
	ctx := context.Background()

	a, err := engine.CreateManualEntry(ctx, ManualEntryRequest{UserID: "alice", Date: "2024-03-04", StartTime: "10:00", EndTime: "12:00"})
	require.NoError(t, err)
	b, err := engine.CreateManualEntry(ctx, ManualEntryRequest{UserID: "alice", Date: "2024-03-04", StartTime: "13:00", EndTime: "14:00"})
	require.NoError(t, err)

	_, err = engine.EditEntry(ctx, "alice", b.ID, EditRequest{StartTime: str("11:00")})
	assert.ErrorIs(t, err, errors.ErrOverlap)

	edited, err := engine.EditEntry(ctx, "alice", b.ID, EditRequest{StartTime: str("12:00")})
	require.NoError(t, err)
	assert.Equal(t, 2.0, edited.TotalHours)
	assert.Equal(t, "12:00", edited.ClockIn.Format("15:04"))
	assert.Equal(t, "14:00", edited.ClockOut.Format("15:04"))

	corrected, err := engine.AdminEditEntry(ctx, b.ID, EditRequest{StartTime: str("11:30")}, "boss")
	require.NoError(t, err)
	assert.Equal(t, "boss", corrected.UpdatedBy)
	assert.Equal(t, 2.5, corrected.TotalHours)

	unchanged, err := engine.GetEntry(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, unchanged.TotalHours)
}

func TestEngine_EditEntry_OvernightSession(t *testing.T) {
	// Arrange
	engine, clock, _ := setupTestEngine(t)
	ctx := context.Background()

	clock.Set(time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC))
	_, err := engine.ClockIn(ctx, "alice")
	require.NoError(t, err)
	clock.Advance(8 * time.Hour)
	entry, err := engine.ClockOut(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "2024-03-05", entry.Date)

	// Act
	first, err := engine.EditEntry(ctx, "alice", entry.ID, EditRequest{EndTime: str("07:00")})
	require.NoError(t, err)
	second, err := engine.EditEntry(ctx, "alice", entry.ID, EditRequest{EndTime: str("08:00")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", first.Date)
	assert.Equal(t, 9.0, first.TotalHours)
	assert.Equal(t, "2024-03-05", second.Date)
	assert.Equal(t, 10.0, second.TotalHours)
	assert.True(t, second.ClockIn.Equal(time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)))
	assert.True(t, second.ClockOut.Equal(time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)))

	restarted, err := engine.EditEntry(ctx, "alice", entry.ID, EditRequest{StartTime: str("21:00")})
	require.NoError(t, err)
	assert.Equal(t, 11.0, restarted.TotalHours)
	assert.Equal(t, "2024-03-05", restarted.Date)
}

func TestEngine_DeleteEntry(t *testing.T) {
	engine, _, logger := setupTestEngine(t)
	ctx := context.Background()

	entry, err := engine.CreateManualEntry(ctx, ManualEntryRequest{UserID: "alice", Date: "2024-03-04", StartTime: "10:00", EndTime: "12:00"})
	require.NoError(t, err)

	err = engine.DeleteEntry(ctx, "bob", entry.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	require.NoError(t, engine.AdminDeleteEntry(ctx, entry.ID, "boss"))
	_, ok := logger.Find("admin deleted entry")
	assert.True(t, ok)

	entries, err := engine.ListAllEntries(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEngine_Aggregates(t *testing.T) {
	engine, _, _ := setupTestEngine(t)
	ctx := context.Background()

	_, err := engine.CreateManualEntry(ctx, ManualEntryRequest{UserID: "alice", Date: "2024-03-04", StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)

	stats, err := engine.GetStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 8.0, stats.TodayHours)
	assert.Equal(t, 8.0, stats.MonthHours)
	assert.Equal(t, 8.0, stats.AverageDailyHours)

	report, err := engine.GetMonthlyReport(ctx, "alice", "Alice Smith", "03", 2024)
	require.NoError(t, err)
	assert.Equal(t, 8.0, report.TotalHours)
	assert.Len(t, report.DailyEntries, 1)

	entries, err := engine.ListEntries(ctx, "alice", "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	day, err := engine.ListEntriesForDate(ctx, "alice", "2024-03-04")
	require.NoError(t, err)
	assert.Len(t, day, 1)
}
