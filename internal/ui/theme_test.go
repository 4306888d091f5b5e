package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/courier/internal/dispatch"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("Unknown"); got != "Dracula" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dracula", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestStatusStyle_KnownAndFallback(t *testing.T) {
	th := GetTheme("Dracula")
	styles := th.Styles()

	if got := styles.StatusStyle("5xx").GetBackground(); got != lipgloss.Color(th.StatusColors["5xx"]) {
		t.Fatalf("StatusStyle(5xx) background = %v, want %v", got, th.StatusColors["5xx"])
	}
	if got := styles.StatusStyle("nope").GetBackground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("StatusStyle(nope) background = %v, want muted %v", got, th.Muted)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		outcome dispatch.Outcome
		want    string
	}{
		{dispatch.Outcome{State: dispatch.StateSucceeded, StatusCode: 204}, "2xx"},
		{dispatch.Outcome{State: dispatch.StateSucceeded, StatusCode: 404}, "4xx"},
		{dispatch.Outcome{State: dispatch.StateSucceeded, StatusCode: 503}, "5xx"},
		{dispatch.Outcome{State: dispatch.StateFailed}, "failed"},
		{dispatch.Outcome{State: dispatch.StateRejected}, "rejected"},
	}
	for _, tt := range tests {
		if got := statusClass(tt.outcome); got != tt.want {
			t.Fatalf("statusClass(%+v) = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  short  ", 10); got != "short" {
		t.Fatalf("truncateMiddle short = %q", got)
	}
	got := truncateMiddle("/home/user/.config/courier/formats.json", 15)
	if len([]rune(got)) != 15 || got[:7] != "/home/u" {
		t.Fatalf("truncateMiddle long = %q, want 15 runes keeping the start", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q, want abc…", got)
	}
}
