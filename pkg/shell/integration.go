package shell

import (
	"fmt"
	"strings"
)

// Options configures the generated integration snippet.
type Options struct {
	// BinaryPath is the prompt-line executable the hook runs. Defaults to
	// "prompt-line" resolved through $PATH.
	BinaryPath string
}

// DefaultOptions returns the options used by `prompt-line init`.
func DefaultOptions() Options {
	return Options{BinaryPath: "prompt-line"}
}

// Generate returns the snippet that installs prompt-line as the prompt of
// st. Each snippet passes the previous command's status with --exit-code,
// except on the very first prompt of a session where no command has run.
//
// Bash and zsh keep the rendered line in a variable and point the prompt
// at it, so branch or directory names are never expanded as code. A
// sentinel after the command output keeps the trailing newline of the
// two-line layout, which command substitution would otherwise strip.
func Generate(st ShellType, opts Options) string {
	bin := opts.BinaryPath
	if bin == "" {
		bin = DefaultOptions().BinaryPath
	}
	bin = shQuote(bin)

	switch st {
	case Bash:
		return fmt.Sprintf(bashTemplate, bin)
	case Zsh:
		return fmt.Sprintf(zshTemplate, bin)
	case Fish:
		return fmt.Sprintf(fishTemplate, bin)
	default:
		return ""
	}
}

// shQuote wraps s in single quotes, escaping embedded single quotes the
// POSIX way. Fish accepts the same form.
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

const bashTemplate = `# prompt-line integration for bash
# Add to ~/.bashrc:  eval "$(prompt-line init bash)"
_prompt_line_precmd() {
    local exit_code=$?
    local -a args=(--shell bash)
    if [[ -n "${_prompt_line_ran:-}" ]]; then
        args+=(--exit-code "$exit_code")
    fi
    _prompt_line_ran=1
    _prompt_line_ps1="$(%s "${args[@]}"; printf x)"
    _prompt_line_ps1="${_prompt_line_ps1%%x}"
    PS1='${_prompt_line_ps1}'
    return "$exit_code"
}
shopt -s promptvars
if [[ ";${PROMPT_COMMAND:-};" != *";_prompt_line_precmd;"* ]]; then
    PROMPT_COMMAND="_prompt_line_precmd${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
fi
`

const zshTemplate = `# prompt-line integration for zsh
# Add to ~/.zshrc:  eval "$(prompt-line init zsh)"
autoload -Uz add-zsh-hook
_prompt_line_precmd() {
    local exit_code=$?
    local -a args
    args=(--shell zsh)
    if [[ -n "${_prompt_line_ran:-}" ]]; then
        args+=(--exit-code "$exit_code")
    fi
    _prompt_line_ran=1
    _prompt_line_prompt="$(%s "${args[@]}"; printf x)"
    _prompt_line_prompt="${_prompt_line_prompt%%x}"
    PROMPT='${_prompt_line_prompt}'
}
setopt prompt_subst
add-zsh-hook precmd _prompt_line_precmd
`

const fishTemplate = `# prompt-line integration for fish
# Add to ~/.config/fish/config.fish:  prompt-line init fish | source
function fish_prompt
    set -l exit_code $status
    set -l args --shell fish
    if set -q _prompt_line_ran
        set -a args --exit-code $exit_code
    end
    set -g _prompt_line_ran 1
    %s $args
end
`
