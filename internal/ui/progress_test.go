package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hier/internal/warm"
)

func TestApplyEventTracksStatus(t *testing.T) {
	events := make(chan warm.Event)
	m := NewProgressModel("warming", []string{"java.lang.Integer", "com.example.Missing"}, events).(*progressModel)

	m.applyEvent(warm.Event{ID: "java.lang.Integer", Stage: warm.StageChain, Status: warm.StatusWorking})
	if got := m.items[0].status; got != "ascending" {
		t.Fatalf("status = %q, want ascending", got)
	}
	m.applyEvent(warm.Event{ID: "java.lang.Integer", Status: warm.StatusDone, Elapsed: 3 * time.Millisecond})
	m.applyEvent(warm.Event{ID: "com.example.Missing", Status: warm.StatusError, Err: errors.New("type not found")})
	m.applyEvent(warm.Event{ID: "unknown", Status: warm.StatusDone})

	if m.items[0].status != "done" || m.items[1].status != "error" {
		t.Fatalf("unexpected statuses: %+v", m.items)
	}
	if m.failed != 1 {
		t.Fatalf("failed = %d, want 1", m.failed)
	}

	view := m.View()
	for _, want := range []string{"warming (1 failed)", "java.lang.Integer", "type not found"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("java.util.concurrent.TimeUnit", 10); got != "java.ut..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
}
