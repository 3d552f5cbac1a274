package eventlog

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAddCapsEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Add("net", fmt.Sprintf("event %d", i))
	}
	if len(m.Entries) != maxEntries {
		t.Fatalf("entries = %d, want %d", len(m.Entries), maxEntries)
	}
	// Oldest entries are dropped first.
	if got := m.Entries[0].Message; got != "event 50" {
		t.Errorf("oldest entry = %q, want %q", got, "event 50")
	}
}

func TestScrollClamps(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		m.Add("ui", "x")
	}
	m.ScrollUp(100)
	if m.Offset != 9 {
		t.Errorf("Offset after over-scroll = %d, want 9", m.Offset)
	}
	m.ScrollDown(100)
	if m.Offset != 0 {
		t.Errorf("Offset after scroll to bottom = %d, want 0", m.Offset)
	}

	// A new entry snaps the view back to the bottom.
	m.ScrollUp(5)
	m.Add("ui", "y")
	if m.Offset != 0 {
		t.Errorf("Offset after new entry = %d, want 0", m.Offset)
	}
}

func TestViewTruncatesLongMessagesOnRunes(t *testing.T) {
	m := New()
	m.Add("err", strings.Repeat("连接失败", 20))

	got := m.View(30, 24)
	if !utf8.ValidString(got) {
		t.Error("truncation split a multibyte rune")
	}
	if !strings.Contains(got, "...") {
		t.Error("long message was not truncated")
	}
}

func TestViewShowsEntries(t *testing.T) {
	m := New()
	if got := m.View(80, 24); !strings.Contains(got, "No events") {
		t.Errorf("empty log view = %q, want placeholder", got)
	}

	m.Add("err", "connection refused")
	got := m.View(80, 24)
	if !strings.Contains(got, "connection refused") {
		t.Errorf("log view missing entry: %q", got)
	}
	if !strings.Contains(got, "1 entries") {
		t.Errorf("log view missing entry count: %q", got)
	}
}
