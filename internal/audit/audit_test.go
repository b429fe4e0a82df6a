package audit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var fixedTime = time.Date(2026, 2, 28, 12, 0, 0, 123456000, time.Local)

type echoed struct {
	msg   string
	isErr bool
}

func newTestLogger(t *testing.T, pid int) (*Logger, *[]echoed) {
	t.Helper()
	var got []echoed
	l, err := New(t.TempDir(),
		WithPID(pid),
		WithClock(func() time.Time { return fixedTime }),
		WithEcho(func(msg string, isErr bool) { got = append(got, echoed{msg, isErr}) }),
	)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, &got
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("log is not valid CSV: %v", err)
	}
	return rows
}

func TestNewWritesHeaderAndNamesFileByPID(t *testing.T) {
	l, _ := newTestLogger(t, 4242)

	if filepath.Base(l.Path()) != "log_4242.csv" {
		t.Errorf("Path() = %q, want base log_4242.csv", l.Path())
	}
	if !filepath.IsAbs(l.Path()) {
		t.Errorf("Path() = %q is not absolute", l.Path())
	}

	rows := readRows(t, l.Path())
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][0] != "datetime" || rows[0][1] != "message" || rows[0][2] != "error" {
		t.Errorf("header = %v", rows[0])
	}
}

func TestLogIsVisibleBeforeClose(t *testing.T) {
	l, _ := newTestLogger(t, 1)

	if err := l.Info("a.txt -> b.txt", false); err != nil {
		t.Fatal(err)
	}
	if err := l.Error("rename x y: no such file or directory", false); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, l.Path())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	want := [][]string{
		{"2026-02-28 12:00:00.123456", "a.txt -> b.txt", "false"},
		{"2026-02-28 12:00:00.123456", "rename x y: no such file or directory", "true"},
	}
	for i, w := range want {
		row := rows[i+1]
		for j := range w {
			if row[j] != w[j] {
				t.Errorf("row %d col %d = %q, want %q", i+1, j, row[j], w[j])
			}
		}
	}
}

func TestEchoOnlyWhenRequested(t *testing.T) {
	l, got := newTestLogger(t, 2)

	l.Info("quiet", false)
	l.Info("Skipping header row", true)
	l.Error("bad dir", true)

	if len(*got) != 2 {
		t.Fatalf("echoed %d events, want 2: %v", len(*got), *got)
	}
	if (*got)[0] != (echoed{"Skipping header row", false}) {
		t.Errorf("first echo = %+v", (*got)[0])
	}
	if (*got)[1] != (echoed{"bad dir", true}) {
		t.Errorf("second echo = %+v", (*got)[1])
	}
}

func TestMessagesWithCommasAreQuoted(t *testing.T) {
	l, _ := newTestLogger(t, 3)

	msg := `/tmp/a, b.txt -> /tmp/"c".txt`
	if err := l.Info(msg, false); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, l.Path())
	if rows[1][1] != msg {
		t.Errorf("message = %q, want %q", rows[1][1], msg)
	}
}

func TestLogAfterClose(t *testing.T) {
	l, _ := newTestLogger(t, 5)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Info("late", false); err == nil {
		t.Error("expected error logging to a closed log")
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
}
