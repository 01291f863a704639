package logfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var logTime = time.Date(2026, 6, 1, 12, 30, 45, 0, time.UTC)

func TestReadingPathDeterministic(t *testing.T) {
	l := New("/data")

	want := filepath.Join("/data", "log", "2026", "06", "2026-06-01.log")
	if got := l.ReadingPath(logTime); got != want {
		t.Errorf("ReadingPath: got %q, want %q", got, want)
	}

	// Same day, different time of day: same file.
	later := logTime.Add(5 * time.Hour)
	if got := l.ReadingPath(later); got != want {
		t.Errorf("ReadingPath later same day: got %q, want %q", got, want)
	}
}

func TestErrorPath(t *testing.T) {
	l := New("/data")

	want := filepath.Join("/data", "log", "2026", "06", "2026-06-01_error.log")
	if got := l.ErrorPath(logTime); got != want {
		t.Errorf("ErrorPath: got %q, want %q", got, want)
	}
}

func TestPathCrossesDayBoundary(t *testing.T) {
	l := New("/data")

	before := time.Date(2026, 6, 1, 23, 59, 59, 0, time.UTC)
	after := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)

	if l.ReadingPath(before) == l.ReadingPath(after) {
		t.Error("day boundary should select a new file")
	}
}

func TestPathCrossesMonthBoundary(t *testing.T) {
	l := New("/data")

	dec := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
	jan := time.Date(2027, 1, 1, 1, 0, 0, 0, time.UTC)

	if !strings.Contains(l.ReadingPath(dec), filepath.Join("2026", "12")) {
		t.Errorf("december path: got %q", l.ReadingPath(dec))
	}
	if !strings.Contains(l.ReadingPath(jan), filepath.Join("2027", "01")) {
		t.Errorf("january path: got %q", l.ReadingPath(jan))
	}
}

func TestReadingFormat(t *testing.T) {
	l := New(t.TempDir())

	if err := l.Reading(logTime, "soil is dry (raw=20000)", 20000, 2.1); err != nil {
		t.Fatalf("Reading: %v", err)
	}

	data, err := os.ReadFile(l.ReadingPath(logTime))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	want := "[2026-06-01 12:30:45] soil is dry (raw=20000) | raw=20000, voltage=2.100V\n"
	if string(data) != want {
		t.Errorf("reading line:\n got %q\nwant %q", string(data), want)
	}
}

func TestReadingAppends(t *testing.T) {
	l := New(t.TempDir())

	l.Reading(logTime, "soil is wet (raw=100)", 100, 0.013)
	l.Reading(logTime.Add(time.Second), "soil is wet (raw=101)", 101, 0.013)

	data, err := os.ReadFile(l.ReadingPath(logTime))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), string(data))
	}
	if !strings.Contains(lines[1], "raw=101") {
		t.Errorf("second line: got %q", lines[1])
	}
}

func TestDirectoryCreationIdempotent(t *testing.T) {
	l := New(t.TempDir())

	// Two writes against the same (pre-existing after the first) directory.
	if err := l.Reading(logTime, "soil is wet (raw=1)", 1, 0.0); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := l.Reading(logTime, "soil is wet (raw=2)", 2, 0.0); err != nil {
		t.Fatalf("second write against existing dir: %v", err)
	}
}

func TestErrorBlock(t *testing.T) {
	l := New(t.TempDir())

	err := l.Error(logTime, "HardwareError", "i2c transaction failed", "read soil sensor: i2c: no ack")
	if err != nil {
		t.Fatalf("Error: %v", err)
	}

	data, readErr := os.ReadFile(l.ErrorPath(logTime))
	if readErr != nil {
		t.Fatalf("read error log: %v", readErr)
	}
	got := string(data)

	for _, want := range []string{
		"[ERROR] 2026-06-01 12:30:45",
		"error type: HardwareError",
		"error: i2c transaction failed",
		"read soil sensor: i2c: no ack",
		border,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("error block missing %q:\n%s", want, got)
		}
	}

	if !strings.HasSuffix(got, border+"\n\n") {
		t.Errorf("error block should end with a border and blank line:\n%q", got)
	}
}

func TestErrorBlockNoDetails(t *testing.T) {
	l := New(t.TempDir())

	if err := l.Error(logTime, "UnexpectedError", "something broke", ""); err != nil {
		t.Fatalf("Error: %v", err)
	}

	data, err := os.ReadFile(l.ErrorPath(logTime))
	if err != nil {
		t.Fatalf("read error log: %v", err)
	}
	if strings.Contains(string(data), "error: something broke\n\n"+border) {
		// fine: no details line between message and closing border
		return
	}
	if !strings.Contains(string(data), "error: something broke") {
		t.Errorf("missing message: %s", string(data))
	}
}

func TestReadingAndErrorShareDirectory(t *testing.T) {
	l := New(t.TempDir())

	l.Reading(logTime, "soil is wet (raw=5)", 5, 0.0)
	l.Error(logTime, "UnexpectedError", "boom", "")

	if filepath.Dir(l.ReadingPath(logTime)) != filepath.Dir(l.ErrorPath(logTime)) {
		t.Error("reading and error logs should share one directory scheme")
	}
}
