// Package shell knows the shells prompt-line integrates with: how to detect
// the calling shell, which zero-width markers its prompt expansion expects,
// and the snippet that installs prompt-line as the prompt.
package shell

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/prompt-line/pkg/colorstream"
)

// ShellType names a supported shell.
type ShellType string

const (
	Bash ShellType = "bash"
	Zsh  ShellType = "zsh"
	Fish ShellType = "fish"

	// None is not a shell; it selects bare escape sequences.
	None ShellType = "none"
)

// Supported lists the shells with an integration snippet.
func Supported() []ShellType {
	return []ShellType{Bash, Zsh, Fish}
}

// Parse maps a --shell or config value to a ShellType.
func Parse(name string) (ShellType, error) {
	switch st := ShellType(strings.ToLower(strings.TrimSpace(name))); st {
	case Bash, Zsh, Fish, None:
		return st, nil
	default:
		return "", fmt.Errorf("unknown shell %q (supported: bash, zsh, fish, none)", name)
	}
}

// Markers returns the zero-width markers the shell's prompt expansion needs
// around escape sequences. Bash uses readline's ignore bytes, zsh its %{ %}
// brackets; fish measures escapes itself.
func Markers(st ShellType) colorstream.Markers {
	switch st {
	case Zsh:
		return colorstream.ZshMarkers
	case Fish, None:
		return colorstream.NoMarkers
	default:
		return colorstream.ReadlineMarkers
	}
}
