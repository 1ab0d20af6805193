// Package terminal picks the color depth of the prompt from the terminal
// emulator's environment.
//
// The prompt is printed into a shell's prompt variable, never directly to a
// tty, so nothing here queries the terminal: detection is environment
// inspection only.
package terminal

import (
	"strings"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermUnknown   Terminal = iota
	TermGhostty            // Ghostty
	TermKitty              // Kitty
	TermWezTerm            // WezTerm
	TermITerm2             // iTerm2
	TermAlacritty          // Alacritty
	TermTilix              // Tilix (VTE-based)
	TermGNOME              // GNOME Terminal (VTE-based)
	TermTmux               // tmux multiplexer
	TermScreen             // GNU Screen multiplexer
	TermVSCode             // VS Code integrated terminal
	TermEmacs              // Emacs vterm/eat
	TermGeneric            // anything else
)

var terminalNames = [...]string{
	TermUnknown:   "unknown",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermAlacritty: "alacritty",
	TermTilix:     "tilix",
	TermGNOME:     "gnome-terminal",
	TermTmux:      "tmux",
	TermScreen:    "screen",
	TermVSCode:    "vscode",
	TermEmacs:     "emacs",
	TermGeneric:   "generic",
}

// String returns the human-readable name of the terminal.
func (t Terminal) String() string {
	if int(t) >= 0 && int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the terminal renders 24-bit color.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2,
		TermAlacritty, TermTilix, TermGNOME, TermVSCode:
		return true
	default:
		return false
	}
}

// Detect identifies the terminal emulator from environment variables,
// trying signals in order of reliability:
//
//  1. TERM_PROGRAM
//  2. TERM (xterm-ghostty, xterm-kitty, alacritty)
//  3. emulator-specific variables (KITTY_WINDOW_ID, ITERM_SESSION_ID, ...)
//  4. VTE_VERSION for VTE-based terminals
//  5. INSIDE_EMACS
//  6. TMUX / STY for multiplexers
//  7. LC_TERMINAL, which iTerm2 forwards over ssh
func Detect(env collectors.Env) Terminal {
	if tp := env.Get("TERM_PROGRAM"); tp != "" {
		switch strings.ToLower(tp) {
		case "ghostty":
			return TermGhostty
		case "kitty":
			return TermKitty
		case "wezterm":
			return TermWezTerm
		case "iterm.app":
			return TermITerm2
		case "vscode":
			return TermVSCode
		case "alacritty":
			return TermAlacritty
		case "tmux":
			return TermTmux
		}
	}

	if term := env.Get("TERM"); term != "" {
		switch {
		case term == "xterm-ghostty":
			return TermGhostty
		case term == "xterm-kitty":
			return TermKitty
		case strings.HasPrefix(term, "alacritty"):
			return TermAlacritty
		case strings.HasPrefix(term, "screen"):
			// screen-256color is also used by tmux; STY confirms screen.
			if env.Has("STY") {
				return TermScreen
			}
		}
	}

	switch {
	case env.Get("KITTY_WINDOW_ID") != "":
		return TermKitty
	case env.Get("ITERM_SESSION_ID") != "":
		return TermITerm2
	case env.Get("WEZTERM_EXECUTABLE") != "":
		return TermWezTerm
	}

	if env.Get("VTE_VERSION") != "" {
		if env.Get("TILIX_ID") != "" {
			return TermTilix
		}
		return TermGNOME
	}

	if env.Get("INSIDE_EMACS") != "" {
		return TermEmacs
	}

	// Multiplexers last so the inner terminal wins when it is identifiable.
	if env.Get("TMUX") != "" {
		return TermTmux
	}
	if env.Get("STY") != "" {
		return TermScreen
	}

	if env.Get("LC_TERMINAL") == "iTerm2" {
		return TermITerm2
	}

	return TermGeneric
}

// ColorProfile returns the color depth to render with. COLORTERM is the
// explicit signal; otherwise a known true-color emulator wins, then the
// 256color suffix of TERM. TERM=dumb disables color.
func ColorProfile(env collectors.Env) termenv.Profile {
	switch strings.ToLower(env.Get("COLORTERM")) {
	case "truecolor", "24bit":
		return termenv.TrueColor
	}

	term := env.Get("TERM")
	if term == "dumb" {
		return termenv.Ascii
	}
	if Detect(env).SupportsTrueColor() {
		return termenv.TrueColor
	}
	if strings.Contains(term, "256color") {
		return termenv.ANSI256
	}
	return termenv.ANSI
}

// ParseProfile maps a configured color depth to a profile. "auto" and
// unknown values defer to ColorProfile.
func ParseProfile(name string, env collectors.Env) termenv.Profile {
	switch name {
	case "truecolor":
		return termenv.TrueColor
	case "256":
		return termenv.ANSI256
	case "16":
		return termenv.ANSI
	default:
		return ColorProfile(env)
	}
}
