package shelltest

import (
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/prompt-line/pkg/shell"
)

// ShellVersion describes a shell version for compatibility testing.
type ShellVersion struct {
	Shell    shell.ShellType
	Version  string   // e.g., "5.2", "4.4", "3.6"
	Features []string // features from stCompatRules available at this version
}

// stCompatRule ties a syntax feature to the first shell version that
// understands it. The feature is in use when any token appears in the
// script.
type stCompatRule struct {
	shell   shell.ShellType
	feature string
	since   string
	tokens  []string
}

var stCompatRules = []stCompatRule{
	{shell.Bash, "array-append", "3.1", []string{"+=("}},
	{shell.Bash, "PROMPT_COMMAND-array", "5.1", []string{"PROMPT_COMMAND=(", "PROMPT_COMMAND+=("}},
	{shell.Zsh, "add-zsh-hook", "4.3.4", []string{"add-zsh-hook"}},
	{shell.Fish, "set-append", "3.0", []string{"set -a ", "set --append "}},
	{shell.Fish, "dollar-paren", "3.4", []string{"$("}},
}

// stKnownVersions are the releases the snippets are checked against: the
// oldest still found on LTS systems (bash 3.2 on macOS), and current ones.
var stKnownVersions = map[shell.ShellType][]string{
	shell.Bash: {"3.0", "3.2", "5.1", "5.2"},
	shell.Zsh:  {"4.3", "5.0", "5.9"},
	shell.Fish: {"2.7", "3.0", "3.7"},
}

// KnownVersions returns the shell versions we test against.
func KnownVersions() []ShellVersion {
	var out []ShellVersion
	for _, sh := range shell.Supported() {
		for _, v := range stKnownVersions[sh] {
			sv := ShellVersion{Shell: sh, Version: v}
			for _, r := range stCompatRules {
				if r.shell == sh && !stVersionLess(v, r.since) {
					sv.Features = append(sv.Features, r.feature)
				}
			}
			out = append(out, sv)
		}
	}
	return out
}

// CheckVersionCompat returns a warning for every feature the script uses
// that the given shell version lacks.
func CheckVersionCompat(shellType shell.ShellType, version string, script string) []string {
	if _, ok := stKnownVersions[shellType]; !ok {
		return []string{fmt.Sprintf("unknown shell type: %s", shellType)}
	}

	var warnings []string
	for _, r := range stCompatRules {
		if r.shell != shellType || !stVersionLess(version, r.since) {
			continue
		}
		for _, tok := range r.tokens {
			if strings.Contains(script, tok) {
				warnings = append(warnings, fmt.Sprintf(
					"%s (%q) is not available in %s %s (added in %s)", r.feature, strings.TrimSpace(tok), shellType, version, r.since))
				break
			}
		}
	}

	// add-zsh-hook is a function file, not a builtin.
	if shellType == shell.Zsh && strings.Contains(script, "add-zsh-hook") && !strings.Contains(script, "autoload") {
		warnings = append(warnings, "add-zsh-hook requires explicit autoload")
	}
	return warnings
}

// stVersionLess compares dot-separated numeric versions. Missing or
// non-numeric components count as zero.
func stVersionLess(a, b string) bool {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i, n := 0, max(len(as), len(bs)); i < n; i++ {
		av, bv := stVersionPart(as, i), stVersionPart(bs, i)
		if av != bv {
			return av < bv
		}
	}
	return false
}

func stVersionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	s := parts[i]
	if end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); end >= 0 {
		s = s[:end]
	}
	n, _ := strconv.Atoi(s)
	return n
}
