package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/pokedeck/internal/otel"
)

func TestDebugOverlayNilRing(t *testing.T) {
	result := debugOverlay(nil, 80, 24)
	if result != "" {
		t.Errorf("debugOverlay(nil) should return empty string, got %q", result)
	}
}

func TestDebugOverlayRendersStats(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindPageComplete, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindPageComplete, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindPageError, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindDetailStale, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindSpriteFallback, Time: time.Now()})

	result := debugOverlay(ring, 80, 40)

	if !strings.Contains(result, "Catalog Stats") {
		t.Error("overlay should contain 'Catalog Stats' header")
	}
	if !strings.Contains(result, "2 complete, 1 errors, 0 stale") {
		t.Errorf("overlay should show page stats, got:\n%s", result)
	}
	if !strings.Contains(result, "0 complete, 0 errors, 1 stale") {
		t.Errorf("overlay should show detail stats, got:\n%s", result)
	}
	if !strings.Contains(result, "0 loaded, 1 fallback, 0 missing") {
		t.Errorf("overlay should show sprite stats, got:\n%s", result)
	}
	if !strings.Contains(result, "5 / 64 events") {
		t.Errorf("overlay should show buffer stats, got:\n%s", result)
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindPageStart, Time: time.Now(), Gen: 3})
	ring.Push(otel.Event{Kind: otel.KindDetailError, Time: time.Now(), Name: "pikachu", Err: "timeout"})
	ring.Push(otel.Event{Kind: otel.KindNotice, Time: time.Now(), Msg: "hello world"})

	result := debugOverlay(ring, 100, 40)

	if !strings.Contains(result, "Recent Events") {
		t.Error("overlay should contain 'Recent Events' header")
	}
	for _, want := range []string{"gen:3", "pikachu", "ERR:timeout", "hello world"} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay missing %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayTruncation(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	for i := 0; i < 30; i++ {
		ring.Push(otel.Event{Kind: otel.KindPageStart, Time: time.Now()})
	}

	result := debugOverlay(ring, 80, 10)
	if result == "" {
		t.Error("overlay should still render with small height")
	}

	// With height=10, maxHeight=6, so at most ~6 content lines (plus border/padding)
	if lines := strings.Count(result, "\n"); lines > 20 {
		t.Errorf("overlay should be truncated, got %d lines", lines)
	}
}

func TestDebugToggle(t *testing.T) {
	ring := otel.NewRingBuffer(16)
	app := NewAppWithConfig(AppConfig{
		Obs: ObsConfig{Ring: ring},
	})
	app.ready = true
	app.width = 80
	app.height = 24

	if app.debugVisible {
		t.Error("debug should be hidden initially")
	}

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	updated := model.(App)
	if !updated.debugVisible {
		t.Error("? should show debug overlay")
	}

	view := updated.View()
	if !strings.Contains(view, "[DEBUG]") {
		t.Errorf("debug view should contain '[DEBUG]', got:\n%s", view)
	}

	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	updated = model.(App)
	if updated.debugVisible {
		t.Error("second ? should hide debug overlay")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{0, "0ms"},
		{50 * time.Millisecond, "50ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "2m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.dur); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.dur, got, tt.want)
		}
	}
	if got := formatAge(-5 * time.Second); got != "0ms" {
		t.Errorf("formatAge(-5s) = %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("pokémon", 4); got != "pok…" {
		t.Errorf("got %q", got)
	}
	if got := truncateRunes("abc", 10); got != "abc" {
		t.Errorf("got %q", got)
	}
}
