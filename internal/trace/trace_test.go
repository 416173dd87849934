package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"off":    LevelOff,
		"":       LevelOff,
		"ERROR":  LevelError,
		"phase":  LevelPhase,
		"Detail": LevelDetail,
		"debug":  LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopeQuery) || LevelPhase.ShouldEmit(ScopeCache) {
		t.Fatal("phase level must cover commands and queries only")
	}
	if !LevelDetail.ShouldEmit(ScopeCache) || LevelDetail.ShouldEmit(ScopeProvider) {
		t.Fatal("detail level must stop before provider events")
	}
	if !LevelDebug.ShouldEmit(ScopeProvider) {
		t.Fatal("debug level must include provider events")
	}
	if LevelOff.ShouldEmit(ScopeCommand) {
		t.Fatal("off level must emit nothing")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeQuery, "common", 0)
	span.WithExtra("b", "2").WithExtra("a", "1")
	Point(tr, ScopeCache, "resolve", "hit")
	Point(tr, ScopeProvider, "provider.name", "") // filtered at detail level
	span.End("java.lang.Number")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ common") {
		t.Fatalf("unexpected begin line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "• resolve (hit)") {
		t.Fatalf("unexpected point line: %q", lines[1])
	}
	if !strings.Contains(lines[2], "← common (java.lang.Number) {a=1, b=2}") {
		t.Fatalf("unexpected end line: %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeProvider, "provider.superclass", 7).End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev["kind"] != "end" || ev["scope"] != "provider" || ev["detail"] != "ok" {
		t.Fatalf("unexpected event: %v", ev)
	}
	if ev["parent_id"] != float64(7) {
		t.Fatalf("parent_id = %v, want 7", ev["parent_id"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeCache, name, "")
	}
	snap := ring.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	got := snap[0].Name + snap[1].Name + snap[2].Name
	if got != "cde" {
		t.Fatalf("snapshot order = %q, want cde", got)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump wrote %q", buf.String())
	}
}

func TestNewSelectsImplementation(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("LevelOff should yield Nop, got %T %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := RingOf(tr); !ok {
		t.Fatalf("ModeBoth should expose a ring, got %T", tr)
	}

	tr, err = New(Config{Level: LevelError, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeCommand, "quiet", "")
	if buf.Len() != 0 {
		t.Fatalf("error level must not stream, got %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should yield Nop")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
}

func TestInertSpan(t *testing.T) {
	span := Begin(Nop, ScopeQuery, "x", 0)
	if span.ID() != 0 {
		t.Fatalf("inert span should have id 0")
	}
	if d := span.WithExtra("k", "v").End(""); d != 0 {
		t.Fatalf("inert span duration = %v", d)
	}
}
