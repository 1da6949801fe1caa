package testutil

import "sync"

// LogRecord is one captured log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// Attr returns the value logged under key, if any.
func (r LogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}
	return nil, false
}

// RecordingLogger captures every call for later assertions.
type RecordingLogger struct {
	mu      sync.Mutex
	records []LogRecord
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, LogRecord{Level: level, Message: msg, Args: args})
}

// Records returns the captured calls at level, or all of them when level is empty.
func (l *RecordingLogger) Records(level string) []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []LogRecord
	for _, r := range l.records {
		if level == "" || r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the first record with the given message.
func (l *RecordingLogger) Find(msg string) (LogRecord, bool) {
	for _, r := range l.Records("") {
		if r.Message == msg {
			return r, true
		}
	}
	return LogRecord{}, false
}
