package logging

import (
	"log/slog"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"remote", "REMOTE"},
		{"max_connections", "MAX_CONNECTIONS"},
		{"retry-in", "RETRY_IN"},
		{"_internal", "INTERNAL"},
		{"a.b", "A_B"},
	}
	for _, tt := range tests {
		if got := fieldName(tt.in); got != tt.want {
			t.Errorf("fieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPutField(t *testing.T) {
	fields := map[string]string{}
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	putField(fields, "", slog.String("remote", "10.0.0.2:5000"))
	putField(fields, "", slog.Int("seq", 7))
	putField(fields, "", slog.Bool("on", true))
	putField(fields, "", slog.Duration("retry_in", 250*time.Millisecond))
	putField(fields, "", slog.Time("at", ts))
	putField(fields, "CONN_", slog.Group("peer", slog.String("ip", "10.0.0.2")))
	putField(fields, "", slog.Attr{})

	want := map[string]string{
		"REMOTE":       "10.0.0.2:5000",
		"SEQ":          "7",
		"ON":           "true",
		"RETRY_IN":     "250ms",
		"AT":           "2026-01-02T03:04:05.000Z",
		"CONN_PEER_IP": "10.0.0.2",
	}
	if len(fields) != len(want) {
		t.Errorf("got %d fields, want %d: %v", len(fields), len(want), fields)
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%s] = %q, want %q", k, fields[k], v)
		}
	}
}

func TestJournalHandlerWithAttrs(t *testing.T) {
	h := NewJournalHandler(slog.LevelInfo)
	child := h.WithAttrs([]slog.Attr{slog.String("module", "toggle")}).(*JournalHandler)
	grouped := child.WithGroup("req").(*JournalHandler)

	if child.fields["MODULE"] != "toggle" {
		t.Errorf("MODULE = %q", child.fields["MODULE"])
	}
	if _, ok := h.fields["MODULE"]; ok {
		t.Error("WithAttrs must not modify the parent handler")
	}
	if child.fields["SYSLOG_IDENTIFIER"] != syslogIdentifier {
		t.Error("missing SYSLOG_IDENTIFIER")
	}
	if grouped.prefix != "REQ_" {
		t.Errorf("prefix = %q, want REQ_", grouped.prefix)
	}
	if h.WithGroup("") != h {
		t.Error("empty group should return the same handler")
	}
}

func TestJournalPriority(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  journal.Priority
	}{
		{slog.LevelDebug, journal.PriDebug},
		{slog.LevelInfo, journal.PriInfo},
		{slog.LevelWarn, journal.PriWarning},
		{slog.LevelError, journal.PriErr},
		{slog.LevelError + 4, journal.PriErr},
	}
	for _, tt := range tests {
		if got := journalPriority(tt.level); got != tt.want {
			t.Errorf("journalPriority(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestJournalHandlerEnabled(t *testing.T) {
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	h := NewJournalHandler(&level)

	if h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("info should be disabled at warn")
	}
	level.Set(slog.LevelDebug)
	if !h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("level change should apply immediately")
	}
}
