package shelltest

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tinyland/lab/prompt-line/pkg/shell"
)

// stNamespace prefixes every name a snippet adds to the user's shell.
const stNamespace = "_prompt_line"

// Names a snippet may set although they are outside the namespace: the
// prompt variables and hooks the shells themselves define.
var stAllowedGlobals = map[string]bool{
	"PS1":            true,
	"PROMPT":         true,
	"PROMPT_COMMAND": true,
	"fish_prompt":    true,
}

// Pre-compiled regexes for security checks.
var (
	stBareEvalRe     = regexp.MustCompile(`\beval\s+\$\(`)
	stPosixFuncRe    = regexp.MustCompile(`^\s*([A-Za-z_][\w-]*)\s*\(\)\s*\{`)
	stFishFuncRe     = regexp.MustCompile(`^\s*function\s+(\S+)`)
	stAssignRe       = regexp.MustCompile(`^\s*([A-Za-z_]\w*)(\+?=)`)
	stLocalRe        = regexp.MustCompile(`^\s*local\s+(?:-\w+\s+)*([A-Za-z_]\w*)`)
	stFishGlobalRe   = regexp.MustCompile(`^\s*set\s+(-[a-zA-Z]*[gU][a-zA-Z]*)\s+(\S+)`)
	stExportRe       = regexp.MustCompile(`^\s*(export\s|set\s+-[a-zA-Z]*x)`)
	stCredentialsRe  = regexp.MustCompile(`(?i)(password|secret|api_key|token)\s*=\s*['\"][^'\"]+['\"]`)
	stPromptAssignRe = regexp.MustCompile(`^\s*(PS1|PROMPT)=(.*)$`)
)

// stCheckInjection warns about command substitutions that re-split or
// re-evaluate their output: bare eval $( and odd backtick counts.
func stCheckInjection(script string) []string {
	var warnings []string
	if stBareEvalRe.MatchString(script) {
		warnings = append(warnings, "potential injection: 'eval $(' found without quoting; use 'eval \"$(...)\"' instead")
	}
	stEachCodeLine(script, func(n int, line string) {
		if stCountBackticks(line)%2 != 0 {
			warnings = append(warnings, fmt.Sprintf("line %d: unbalanced backtick; prefer $() for command substitution", n))
		}
	})
	return warnings
}

// stCountBackticks counts backticks outside single and double quotes.
func stCountBackticks(line string) int {
	count := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && quote == '"' && i+1 < len(line):
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '`':
			count++
		}
	}
	return count
}

// stCheckQuoting verifies that a binary path needing quotes only appears in
// its POSIX single-quoted form.
func stCheckQuoting(script, binaryPath string) []string {
	if binaryPath == "" || !strings.ContainsAny(binaryPath, " \t$\"'\\!;|&<>(){}[]?*~") {
		return nil
	}
	quoted := "'" + strings.ReplaceAll(binaryPath, "'", `'\''`) + "'"

	var warnings []string
	stEachCodeLine(script, func(n int, line string) {
		if strings.Contains(line, binaryPath) && !strings.Contains(line, quoted) {
			warnings = append(warnings, fmt.Sprintf("line %d: binary path %q appears unquoted", n, binaryPath))
		}
	})
	return warnings
}

// stCheckStatusCapture verifies that the hook saves the previous command's
// status as its very first statement. Anything run before that overwrites
// $? (or $status in fish) and the prompt would show the wrong exit code.
func stCheckStatusCapture(shellType shell.ShellType, script string) []string {
	status := "$?"
	header := stPosixFuncRe
	if shellType == shell.Fish {
		status = "$status"
		header = stFishFuncRe
	}

	var warnings []string
	inHook := false
	stEachCodeLine(script, func(n int, line string) {
		if header.MatchString(line) {
			inHook = true
			return
		}
		if !inHook {
			return
		}
		inHook = false
		if !strings.Contains(line, status) {
			warnings = append(warnings, fmt.Sprintf(
				"line %d: hook must capture %s before running anything else", n, status))
		}
	})
	return warnings
}

// stCheckPromptExpansion verifies that command output never lands directly in
// PS1 or PROMPT. The shell expands the prompt again before drawing it, so a
// branch named $(cmd) would run cmd; the output must be stored in a variable
// that a single-quoted prompt refers to.
func stCheckPromptExpansion(shellType shell.ShellType, script string) []string {
	if shellType == shell.Fish {
		return nil
	}
	var errs []string
	stEachCodeLine(script, func(n int, line string) {
		m := stPromptAssignRe.FindStringSubmatch(line)
		if m == nil || strings.HasPrefix(m[2], "'") {
			return
		}
		if strings.Contains(m[2], "$(") || strings.Contains(m[2], "`") {
			errs = append(errs, fmt.Sprintf("line %d: command output assigned to %s is expanded again at every prompt", n, m[1]))
		}
	})
	return errs
}

// stCheckNamespace warns about functions and global variables outside the
// _prompt_line namespace.
func stCheckNamespace(shellType shell.ShellType, script string) []string {
	var warnings []string
	locals := make(map[string]bool)
	check := func(n int, kind, name string) {
		if !strings.HasPrefix(name, stNamespace) && !stAllowedGlobals[name] && !locals[name] {
			warnings = append(warnings, fmt.Sprintf("line %d: %s %q is outside the %s namespace", n, kind, name, stNamespace))
		}
	}

	stEachCodeLine(script, func(n int, line string) {
		if shellType == shell.Fish {
			if m := stFishFuncRe.FindStringSubmatch(line); m != nil {
				check(n, "function", m[1])
			}
			if m := stFishGlobalRe.FindStringSubmatch(line); m != nil {
				check(n, "global", m[2])
			}
			return
		}
		if m := stPosixFuncRe.FindStringSubmatch(line); m != nil {
			check(n, "function", m[1])
		}
		// A name declared with local stays local for later assignments.
		if m := stLocalRe.FindStringSubmatch(line); m != nil {
			locals[m[1]] = true
			return
		}
		if m := stAssignRe.FindStringSubmatch(line); m != nil {
			check(n, "global", m[1])
		}
	})
	return warnings
}

// stCheckLeaks warns about exported variables, which would leak into every
// command the user runs, and about credentials written into the snippet.
func stCheckLeaks(script string) []string {
	var warnings []string
	stEachCodeLine(script, func(n int, line string) {
		if stExportRe.MatchString(line) {
			warnings = append(warnings, fmt.Sprintf("line %d: snippet exports a variable into the user's environment", n))
		}
	})
	for _, m := range stCredentialsRe.FindAllString(script, -1) {
		warnings = append(warnings, fmt.Sprintf("potential credential leak: %q", m))
	}
	return warnings
}

// stEachCodeLine calls fn with the 1-based number and text of every line
// that is neither blank nor a comment.
func stEachCodeLine(script string, fn func(n int, line string)) {
	for i, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fn(i+1, line)
	}
}
