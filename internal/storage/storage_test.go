package storage

import (
	"fmt"
	"testing"

	"github.com/rewired-gh/alertrelay/internal/models"
)

func newTestLedger(t *testing.T, maxEntries int) *Ledger {
	t.Helper()
	l, err := New(maxEntries, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func testEntry(i int) models.HistoryEntry {
	return models.HistoryEntry{
		Timestamp: fmt.Sprintf("2026-01-01T00:00:%02dZ", i),
		Symbol:    "BTC",
		Category:  fmt.Sprintf("cat-%d", i),
		Severity:  "info",
		Message:   fmt.Sprintf("message %d", i),
	}
}

func TestLedger_RecordAndSnapshot(t *testing.T) {
	l := newTestLedger(t, 50)

	for i := 0; i < 3; i++ {
		if err := l.Record(testEntry(i)); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries, err := l.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first
	if entries[0].Message != "message 2" {
		t.Errorf("entries[0].Message = %q, want %q", entries[0].Message, "message 2")
	}
	if entries[2].Message != "message 0" {
		t.Errorf("entries[2].Message = %q, want %q", entries[2].Message, "message 0")
	}
	if entries[0].Category != "cat-2" || entries[0].Severity != "info" || entries[0].Symbol != "BTC" {
		t.Errorf("unexpected entry fields: %+v", entries[0])
	}
}

func TestLedger_EnforcesCap(t *testing.T) {
	l := newTestLedger(t, 50)

	for i := 0; i < 60; i++ {
		if err := l.Record(testEntry(i)); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries, err := l.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("got %d entries, want 50", len(entries))
	}
	// The 50 most recent remain, newest-first
	if entries[0].Message != "message 59" {
		t.Errorf("newest entry = %q, want %q", entries[0].Message, "message 59")
	}
	if entries[49].Message != "message 10" {
		t.Errorf("oldest surviving entry = %q, want %q", entries[49].Message, "message 10")
	}
	// Everything before entry 10 was evicted
	for _, e := range entries {
		for i := 0; i < 10; i++ {
			if e.Message == fmt.Sprintf("message %d", i) {
				t.Errorf("entry %d should have been evicted", i)
			}
		}
	}

	n, err := l.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 50 {
		t.Errorf("Len = %d, want 50", n)
	}
}

func TestLedger_SmallCapEvictsOldest(t *testing.T) {
	l := newTestLedger(t, 3)

	for i := 0; i < 4; i++ {
		if err := l.Record(testEntry(i)); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries, _ := l.Snapshot()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Message == "message 0" {
			t.Error("oldest entry should have been evicted")
		}
	}
}

func TestLedger_EmptySnapshot(t *testing.T) {
	l := newTestLedger(t, 50)
	entries, err := l.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if entries == nil {
		t.Error("Snapshot returned nil, want empty slice")
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestLedger_DefaultPath(t *testing.T) {
	l, err := New(10, "")
	if err != nil {
		t.Fatalf("New with empty path: %v", err)
	}
	defer l.Close()
}
