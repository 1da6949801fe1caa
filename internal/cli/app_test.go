package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard/internal/api"
	"timecard/internal/config"
	"timecard/internal/domain"
	"timecard/internal/services"
	"timecard/internal/testutil"
)

type testApp struct {
	app    *App
	engine api.Engine
	clock  *testutil.StubClock
	out    *bytes.Buffer
}

// setupTestApp wires an App acting as alice over an in-memory engine whose
// clock stands at Monday 2024-03-04 09:00 UTC.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	repo := testutil.NewRepository(t, testutil.NewStubIDGenerator())
	clock := testutil.FixedClock()
	engine := api.New(repo, services.Options{Clock: clock})

	cfg := config.NewConfig()
	cfg.Application.UserID = "alice"
	cfg.Time.Location = "UTC"

	originalTimeNow := timeNow
	timeNow = clock.Now
	t.Cleanup(func() { timeNow = originalTimeNow })

	out := &bytes.Buffer{}
	return &testApp{
		app:    NewApp(engine, cfg, out),
		engine: engine,
		clock:  clock,
		out:    out,
	}
}

func (ta *testApp) as(userID string) *testApp {
	ta.app.config.Application.UserID = userID
	return ta
}

func (ta *testApp) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ta.out.Reset()
	err := ta.app.Run(context.Background(), args)
	return ta.out.String(), err
}

func (ta *testApp) manual(t *testing.T, date, start, end string) *domain.TimeEntry {
	t.Helper()
	entry, err := ta.engine.CreateManualEntry(context.Background(), api.ManualEntryRequest{
		UserID:    ta.app.config.Application.UserID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return entry
}

func TestApp_ClockInClockOut(t *testing.T) {
	// Arrange
	ta := setupTestApp(t)

	out, err := ta.run(t, "clock-in")
	require.NoError(t, err)
	assert.Equal(t, "Clocked in alice at 09:00 (session id-1)\n", out)

	// Act
	ta.clock.Advance(8*time.Hour + 30*time.Minute)
	out, err = ta.run(t, "clock-out")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Clocked out alice: 8.50h recorded on 2024-03-04 (entry id-2)\n", out)
}

func TestApp_ClockOutWithoutSession(t *testing.T) {
	ta := setupTestApp(t)

	_, err := ta.run(t, "clock-out")

	assert.EqualError(t, err, "failed to clock out: no active session for user alice")
}

func TestApp_Status(t *testing.T) {
	ta := setupTestApp(t)

	out, err := ta.run(t, "status")
	require.NoError(t, err)
	assert.Equal(t, "alice is not clocked in\n", out)

	_, err = ta.run(t, "clock-in")
	require.NoError(t, err)
	ta.clock.Advance(90 * time.Minute)

	out, err = ta.run(t, "status")
	require.NoError(t, err)
	assert.Equal(t, "alice clocked in since 09:00 (1h 30m)\n", out)
}

func TestApp_Active(t *testing.T) {
	ta := setupTestApp(t)

	out, err := ta.run(t, "active")
	require.NoError(t, err)
	assert.Equal(t, "Nobody is clocked in.\n", out)

	_, err = ta.run(t, "clock-in")
	require.NoError(t, err)
	ta.clock.Advance(45 * time.Minute)
	_, err = ta.as("bob").run(t, "clock-in")
	require.NoError(t, err)

	out, err = ta.run(t, "active")
	require.NoError(t, err)
	assert.Contains(t, out, "USER")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "45m")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "2024-03-04 09:00")
	assert.Contains(t, out, "2024-03-04 09:45")
}

func TestApp_Active_DisplayFormat(t *testing.T) {
	ta := setupTestApp(t)
	ta.app.config.Time.DisplayFormat = "Mon 02 Jan 15:04"

	_, err := ta.run(t, "clock-in")
	require.NoError(t, err)

	out, err := ta.run(t, "active")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon 04 Mar 09:00")
	assert.NotContains(t, out, "2024-03-04")
}

func TestApp_Manual(t *testing.T) {
	ta := setupTestApp(t)
	handler := NewManualCommand(ta.app)
	handler.Notes = "site visit"

	err := handler.Execute(context.Background(), []string{"yesterday", "09:00", "17:30"})

	require.NoError(t, err)
	assert.Equal(t, "Recorded manual entry id-1 2024-03-03 09:00-17:30 (8.50h)\n", ta.out.String())

	out, err := ta.run(t, "entries", "2024-03-03")
	require.NoError(t, err)
	assert.Contains(t, out, "id-1")
	assert.Contains(t, out, "manual")
	assert.Contains(t, out, "site visit")
	assert.Contains(t, out, "Total: 8.50h across 1 entries")
}

func TestApp_ManualErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{
			name:     "should require three arguments",
			args:     []string{"manual", "2024-03-04", "09:00"},
			contains: "expected <date> <start> <end>",
		},
		{
			name:     "should reject an unreadable date",
			args:     []string{"manual", "banana", "09:00", "10:00"},
			contains: "invalid input for date",
		},
		{
			name:     "should reject an end before the start",
			args:     []string{"manual", "2024-03-04", "17:00", "09:00"},
			contains: "must be after start time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupTestApp(t)

			_, err := ta.run(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to record manual entry")
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestApp_Edit(t *testing.T) {
	ta := setupTestApp(t)
	ta.manual(t, "2024-03-04", "09:00", "12:00") // id-1
	ta.manual(t, "2024-03-04", "13:00", "17:00") // id-2

	_, err := ta.run(t, "edit", "id-2", "start=11:00")
	assert.EqualError(t, err, "failed to edit entry: time entry overlaps existing entries: id-1")

	out, err := ta.run(t, "edit", "id-2", "start=12:00", "notes=afternoon")
	require.NoError(t, err)
	assert.Equal(t, "Updated entry id-2 2024-03-04 12:00-17:00 (5.00h)\n", out)

	_, err = ta.as("bob").run(t, "edit", "id-1", "notes=mine")
	assert.EqualError(t, err, "failed to edit entry: permission denied for update on time entry id-1")
}

func TestApp_AdminEdit(t *testing.T) {
	ta := setupTestApp(t)
	ta.manual(t, "2024-03-04", "09:00", "12:00") // id-1
	ta.manual(t, "2024-03-04", "13:00", "17:00") // id-2

	out, err := ta.as("boss").run(t, "admin-edit", "id-2", "start=11:00")

	require.NoError(t, err)
	assert.Equal(t, "Updated entry id-2 2024-03-04 11:00-17:00 (6.00h)\n", out)

	entry, err := ta.engine.GetEntry(context.Background(), "id-2")
	require.NoError(t, err)
	assert.Equal(t, "boss", entry.UpdatedBy)
}

func TestApp_EditArguments(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "should need a change", args: []string{"edit", "id-1"}, contains: "expected <id>"},
		{name: "should need key=value", args: []string{"edit", "id-1", "11:00"}, contains: "expected key=value"},
		{name: "should reject unknown keys", args: []string{"edit", "id-1", "hours=3"}, contains: "must be one of date, start, end, notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupTestApp(t)
			ta.manual(t, "2024-03-04", "09:00", "12:00")

			_, err := ta.run(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestApp_Delete(t *testing.T) {
	ta := setupTestApp(t)
	ta.manual(t, "2024-03-04", "09:00", "12:00") // id-1

	_, err := ta.as("bob").run(t, "delete", "id-1")
	assert.EqualError(t, err, "failed to delete entry: permission denied for delete on time entry id-1")

	admin := NewDeleteCommand(ta.app)
	admin.Admin = true
	require.NoError(t, admin.Execute(context.Background(), []string{"id-1"}))
	assert.Equal(t, "Deleted entry id-1\n", ta.out.String())

	_, err = ta.as("alice").run(t, "delete", "id-1")
	assert.EqualError(t, err, "failed to delete entry: time entry not found: id-1")
}

func TestApp_EntriesJSON(t *testing.T) {
	ta := setupTestApp(t)
	ta.manual(t, "2024-03-01", "09:00", "12:00")
	ta.manual(t, "2024-03-04", "09:00", "10:00")
	ta.as("bob").manual(t, "2024-03-04", "10:00", "11:00")
	ta.app.config.Commands.ListDefaultFormat = "json"

	tests := []struct {
		name     string
		user     string
		all      bool
		args     []string
		expected []string
	}{
		{name: "should list everything for the user", user: "alice", expected: []string{"id-1", "id-2"}},
		{name: "should list one day", user: "alice", args: []string{"today"}, expected: []string{"id-2"}},
		{name: "should list a range", user: "alice", args: []string{"2024-03-01", "2024-03-02"}, expected: []string{"id-1"}},
		{name: "should list every user", all: true, args: []string{"2024-03-04", "2024-03-04"}, expected: []string{"id-2", "id-3"}},
		{name: "should print an empty array", user: "carol", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta.as(tt.user)
			ta.out.Reset()
			handler := NewEntriesCommand(ta.app)
			handler.All = tt.all

			require.NoError(t, handler.Execute(context.Background(), tt.args))

			var entries []domain.TimeEntry
			require.NoError(t, json.Unmarshal(ta.out.Bytes(), &entries))
			ids := make([]string, len(entries))
			for i, e := range entries {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestApp_EntriesTableEmpty(t *testing.T) {
	ta := setupTestApp(t)

	out, err := ta.run(t, "entries")

	require.NoError(t, err)
	assert.Equal(t, "No entries found.\n", out)
}

func TestApp_Stats(t *testing.T) {
	ta := setupTestApp(t)
	ta.manual(t, "2024-03-04", "09:00", "17:00")

	out, err := ta.run(t, "stats")
	require.NoError(t, err)

	var stats domain.TimeTrackingStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 8.0, stats.TodayHours)
	assert.Equal(t, 8.0, stats.MonthHours)
	assert.Equal(t, 1, stats.DaysWorked)
	assert.Nil(t, stats.CurrentSession)
}

func TestApp_Report(t *testing.T) {
	ta := setupTestApp(t)
	ta.manual(t, "2024-03-04", "09:00", "17:00")
	ta.manual(t, "2024-03-05", "09:00", "10:30")
	handler := NewReportCommand(ta.app)
	handler.Name = "Alice Andrews"

	require.NoError(t, handler.Execute(context.Background(), []string{"3", "2024"}))

	var report domain.MonthlyReport
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &report))
	assert.Equal(t, "alice", report.UserID)
	assert.Equal(t, "Alice Andrews", report.UserName)
	assert.Equal(t, "03", report.Month)
	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 9.5, report.TotalHours)
	assert.Len(t, report.DailyEntries, 2)
	assert.Len(t, report.Days, 2)
}

func TestApp_ReportErrors(t *testing.T) {
	ta := setupTestApp(t)

	_, err := ta.run(t, "report", "3", "next year")
	assert.EqualError(t, err, "failed to build report: invalid input for year: year must be a number")

	_, err = ta.run(t, "report", "13", "2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build report")
}

func TestApp_RequiresUser(t *testing.T) {
	ta := setupTestApp(t)
	ta.as("")

	_, err := ta.run(t, "status")

	assert.EqualError(t, err, "failed to get status: invalid input for user: no user given, pass --user or set TC_USER")
}

func TestApp_Run(t *testing.T) {
	ta := setupTestApp(t)

	_, err := ta.run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clock-in")

	_, err = ta.run(t, "resume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestApp_InvalidListFormat(t *testing.T) {
	ta := setupTestApp(t)
	ta.app.config.Commands.ListDefaultFormat = "xml"

	_, err := ta.run(t, "entries")

	assert.EqualError(t, err, "failed to list entries: invalid input for format: must be table or json")
}
