// Package shelltest validates the generated prompt-line shell integration
// snippets. It performs structural analysis -- pattern matching, syntax
// checking, version compatibility, and security auditing -- without
// executing any shell code. The package tests also run the bash snippet in
// a real shell when one is installed.
//
// All private helpers are prefixed with "st" to avoid naming conflicts.
package shelltest

import (
	"regexp"

	"gitlab.com/tinyland/lab/prompt-line/pkg/shell"
)

// Pattern defines a required or forbidden string pattern in a shell script.
type Pattern struct {
	Name        string
	Regex       string // regex pattern string
	Required    bool   // true = must be present, false = must be absent
	Description string

	compiled *regexp.Regexp
}

// stCompile lazily compiles and returns the pattern's regexp.
func (p *Pattern) stCompile() *regexp.Regexp {
	if p.compiled == nil {
		p.compiled = regexp.MustCompile(p.Regex)
	}
	return p.compiled
}

// Matches reports whether the pattern matches anywhere in script.
func (p *Pattern) Matches(script string) bool {
	return p.stCompile().MatchString(script)
}

// PatternsFor returns the required/forbidden patterns for a shell type.
func PatternsFor(shellType shell.ShellType) []Pattern {
	switch shellType {
	case shell.Bash:
		return stBashPatterns()
	case shell.Zsh:
		return stZshPatterns()
	case shell.Fish:
		return stFishPatterns()
	default:
		return nil
	}
}

// stCommonPatterns apply to every snippet: the hook must pass the marker
// style and the previous status to prompt-line.
func stCommonPatterns(sh shell.ShellType) []Pattern {
	return []Pattern{
		{
			Name:        "shell_flag",
			Regex:       `--shell ` + string(sh) + `\b`,
			Required:    true,
			Description: "Integration must select the shell's marker style with --shell",
		},
		{
			Name:        "exit_code_flag",
			Regex:       `--exit-code`,
			Required:    true,
			Description: "Integration must pass the previous status with --exit-code",
		},
		{
			Name:        "quoted_binary",
			Regex:       `'[^']*'`,
			Required:    true,
			Description: "Binary path must be properly quoted",
		},
	}
}

func stBashPatterns() []Pattern {
	return append(stCommonPatterns(shell.Bash), []Pattern{
		{
			Name:        "prompt_command",
			Regex:       `PROMPT_COMMAND=`,
			Required:    true,
			Description: "Bash integration must use PROMPT_COMMAND for precmd hook",
		},
		{
			Name:        "capture_status",
			Regex:       `exit_code=\$\?`,
			Required:    true,
			Description: "Bash hook must capture $? before running anything else",
		},
		{
			Name:        "sets_ps1",
			Regex:       `PS1=`,
			Required:    true,
			Description: "Bash hook must assign PS1",
		},
		{
			Name:        "ps1_from_variable",
			Regex:       `PS1='\$\{_prompt_line_ps1\}'`,
			Required:    true,
			Description: "PS1 must refer to the rendered line so its text is not expanded as code",
		},
		{
			Name:        "keeps_trailing_newline",
			Regex:       `; printf x\)"`,
			Required:    true,
			Description: "Command substitution must keep the newline of the two-line layout",
		},
		{
			Name:        "idempotent_install",
			Regex:       `!= \*";_prompt_line_precmd;"\*`,
			Required:    true,
			Description: "Sourcing the snippet twice must not install the hook twice",
		},
		{
			Name:        "bare_eval_injection",
			Regex:       `eval\s+\$\(`,
			Required:    false,
			Description: "eval $( without quoting is an injection risk",
		},
		{
			Name:        "prompt_command_array",
			Regex:       `PROMPT_COMMAND\+?=\(`,
			Required:    false,
			Description: "PROMPT_COMMAND arrays need bash 5.1",
		},
	}...)
}

func stZshPatterns() []Pattern {
	return append(stCommonPatterns(shell.Zsh), []Pattern{
		{
			Name:        "add_zsh_hook",
			Regex:       `add-zsh-hook precmd`,
			Required:    true,
			Description: "Zsh integration must use add-zsh-hook for precmd",
		},
		{
			Name:        "autoload",
			Regex:       `autoload -Uz add-zsh-hook`,
			Required:    true,
			Description: "add-zsh-hook must be autoloaded before use",
		},
		{
			Name:        "capture_status",
			Regex:       `exit_code=\$\?`,
			Required:    true,
			Description: "Zsh hook must capture $? before running anything else",
		},
		{
			Name:        "sets_prompt",
			Regex:       `PROMPT=`,
			Required:    true,
			Description: "Zsh hook must assign PROMPT",
		},
		{
			Name:        "prompt_subst",
			Regex:       `setopt prompt_subst`,
			Required:    true,
			Description: "PROMPT refers to the rendered line through parameter expansion",
		},
		{
			Name:        "prompt_from_variable",
			Regex:       `PROMPT='\$\{_prompt_line_prompt\}'`,
			Required:    true,
			Description: "PROMPT must refer to the rendered line so its text is not expanded as code",
		},
		{
			Name:        "keeps_trailing_newline",
			Regex:       `; printf x\)"`,
			Required:    true,
			Description: "Command substitution must keep the newline of the two-line layout",
		},
		{
			Name:        "bare_eval",
			Regex:       `eval\s+[^"]`,
			Required:    false,
			Description: "eval without quoted argument is a risk in zsh",
		},
	}...)
}

func stFishPatterns() []Pattern {
	return append(stCommonPatterns(shell.Fish), []Pattern{
		{
			Name:        "fish_prompt",
			Regex:       `function fish_prompt\b`,
			Required:    true,
			Description: "Fish integration must define fish_prompt",
		},
		{
			Name:        "capture_status",
			Regex:       `set -l exit_code \$status`,
			Required:    true,
			Description: "Fish prompt must capture $status before running anything else",
		},
		{
			Name:        "dollar_question",
			Regex:       `\$\?`,
			Required:    false,
			Description: "$? is not valid in fish; use $status",
		},
	}...)
}
