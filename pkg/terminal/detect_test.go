package terminal

import (
	"testing"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
)

func env(kv ...string) collectors.Env {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return collectors.MapEnv(m)
}

// --- Terminal Detection Tests ---

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  collectors.Env
		want Terminal
	}{
		{"ghostty term program", env("TERM_PROGRAM", "ghostty"), TermGhostty},
		{"ghostty term", env("TERM", "xterm-ghostty"), TermGhostty},
		{"kitty term program", env("TERM_PROGRAM", "kitty"), TermKitty},
		{"kitty term", env("TERM", "xterm-kitty"), TermKitty},
		{"kitty window id", env("KITTY_WINDOW_ID", "1"), TermKitty},
		{"wezterm term program", env("TERM_PROGRAM", "WezTerm"), TermWezTerm},
		{"wezterm executable", env("WEZTERM_EXECUTABLE", "/usr/bin/wezterm-gui"), TermWezTerm},
		{"iterm2 term program", env("TERM_PROGRAM", "iTerm.app"), TermITerm2},
		{"iterm2 session", env("ITERM_SESSION_ID", "w0t0p0"), TermITerm2},
		{"iterm2 over ssh", env("LC_TERMINAL", "iTerm2"), TermITerm2},
		{"alacritty term", env("TERM", "alacritty"), TermAlacritty},
		{"tilix", env("VTE_VERSION", "7600", "TILIX_ID", "x"), TermTilix},
		{"gnome", env("VTE_VERSION", "7600"), TermGNOME},
		{"vscode", env("TERM_PROGRAM", "vscode"), TermVSCode},
		{"emacs", env("INSIDE_EMACS", "29.1,vterm"), TermEmacs},
		{"tmux", env("TMUX", "/tmp/tmux-501/default,1,0"), TermTmux},
		{"screen", env("TERM", "screen-256color", "STY", "1.pts-0.host"), TermScreen},
		{"generic", env(), TermGeneric},
		{"term program wins", env("TERM_PROGRAM", "ghostty", "KITTY_WINDOW_ID", "1"), TermGhostty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.env); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminal_String(t *testing.T) {
	if got := TermGNOME.String(); got != "gnome-terminal" {
		t.Errorf("TermGNOME.String() = %q", got)
	}
	if got := Terminal(99).String(); got != "unknown" {
		t.Errorf("Terminal(99).String() = %q, want unknown", got)
	}
}

// --- Color Profile Tests ---

func TestColorProfile(t *testing.T) {
	tests := []struct {
		name string
		env  collectors.Env
		want termenv.Profile
	}{
		{"colorterm truecolor", env("COLORTERM", "truecolor", "TERM", "xterm"), termenv.TrueColor},
		{"colorterm 24bit", env("COLORTERM", "24bit"), termenv.TrueColor},
		{"known emulator", env("TERM_PROGRAM", "ghostty"), termenv.TrueColor},
		{"256color term", env("TERM", "xterm-256color"), termenv.ANSI256},
		{"tmux 256color", env("TERM", "tmux-256color", "TMUX", "x"), termenv.ANSI256},
		{"plain xterm", env("TERM", "xterm"), termenv.ANSI},
		{"dumb", env("TERM", "dumb"), termenv.Ascii},
		{"nothing", env(), termenv.ANSI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorProfile(tt.env); got != tt.want {
				t.Errorf("ColorProfile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseProfile(t *testing.T) {
	plain := env("TERM", "xterm-256color")
	tests := []struct {
		name string
		want termenv.Profile
	}{
		{"truecolor", termenv.TrueColor},
		{"256", termenv.ANSI256},
		{"16", termenv.ANSI},
		{"auto", termenv.ANSI256},
		{"", termenv.ANSI256},
	}
	for _, tt := range tests {
		if got := ParseProfile(tt.name, plain); got != tt.want {
			t.Errorf("ParseProfile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
