package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDefault_Matches(t *testing.T) {
	k := Default()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"j scrolls down", runeKey('j'), k.Down},
		{"arrow scrolls up", tea.KeyMsg{Type: tea.KeyUp}, k.Up},
		{"tab next section", tea.KeyMsg{Type: tea.KeyTab}, k.NextSection},
		{"shift+tab prev section", tea.KeyMsg{Type: tea.KeyShiftTab}, k.PrevSection},
		{"digit opens project", runeKey('3'), k.Project},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, k.Back},
		{"r retries", runeKey('r'), k.Retry},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, k.Quit},
		{"q quits", runeKey('q'), k.Quit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !key.Matches(tt.msg, tt.binding) {
				t.Errorf("%q does not match %v", tt.msg.String(), tt.binding.Keys())
			}
		})
	}
}

func TestProjectIndex(t *testing.T) {
	tests := map[string]int{
		"1":  0,
		"9":  8,
		"0":  -1,
		"a":  -1,
		"12": -1,
		"":   -1,
	}
	for in, want := range tests {
		if got := ProjectIndex(in); got != want {
			t.Errorf("ProjectIndex(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestForMode(t *testing.T) {
	k := Default()
	if got := len(k.ForMode(ModeSplash)); got != 2 {
		t.Errorf("splash bindings = %d, want 2", got)
	}
	offline := k.ForMode(ModeOffline)
	if len(offline) != 2 || offline[0].Help().Key != "r" {
		t.Errorf("offline bindings = %v, want retry first", offline)
	}
	if got := len(k.ForMode(ModeBrowse)); got != len(k.ShortHelp()) {
		t.Errorf("browse bindings = %d, want the short help", got)
	}
}
