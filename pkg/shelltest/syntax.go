package shelltest

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	stBareFuncRe      = regexp.MustCompile(`^\s*[A-Za-z_][\w-]*\s*\(\)\s*$`)
	stPromptCommandRe = regexp.MustCompile(`PROMPT_COMMAND="?([A-Za-z_][\w-]*)`)
	stZshHookRe       = regexp.MustCompile(`add-zsh-hook[ \t]+\w+[ \t]+([A-Za-z_][\w-]*)`)
)

// stClosers maps each POSIX grouping delimiter to its opener.
var stClosers = map[byte]byte{'}': '{', ')': '(', ']': '['}

// stKeywordPairs maps POSIX block terminators to their openers.
var stKeywordPairs = map[string][]string{
	"fi":   {"if"},
	"done": {"for", "while", "until"},
	"esac": {"case"},
}

// stValidateBashSyntax checks the structure of a bash snippet.
func stValidateBashSyntax(script string) []string {
	errs := stScanPosix(script)
	errs = append(errs, stCheckKeywordBlocks(script)...)
	errs = append(errs, stCheckFunctionDeclarations(script)...)
	errs = append(errs, stCheckHookDefined(script, stPromptCommandRe)...)
	return errs
}

// stValidateZshSyntax checks the structure of a zsh snippet. The lexical
// rules are shared with bash; the hook is registered with add-zsh-hook.
func stValidateZshSyntax(script string) []string {
	errs := stScanPosix(script)
	errs = append(errs, stCheckKeywordBlocks(script)...)
	errs = append(errs, stCheckFunctionDeclarations(script)...)
	errs = append(errs, stCheckHookDefined(script, stZshHookRe)...)
	return errs
}

// stValidateFishSyntax checks the structure of a fish snippet.
func stValidateFishSyntax(script string) []string {
	errs := stCheckFishBlocks(script)
	return append(errs, stCheckFishBashisms(script)...)
}

// stOpen is a delimiter or quote waiting for its closer.
type stOpen struct {
	char byte
	line int
}

// stScanPosix walks a POSIX-style script once, tracking quotes, comments and
// nested {} () [] groups. It reports the first unexpected closer and every
// opener or quote left unclosed at the end.
func stScanPosix(script string) []string {
	var (
		errs  []string
		stack []stOpen
		quote *stOpen
	)
	line := 1
	comment := false

	for i := 0; i < len(script); i++ {
		c := script[i]
		if c == '\n' {
			line++
			comment = false
			continue
		}
		if comment {
			continue
		}

		if quote != nil {
			switch {
			case c == '\\' && quote.char == '"' && i+1 < len(script):
				i++
			case c == quote.char:
				quote = nil
			}
			continue
		}

		switch c {
		case '\\':
			i++
		case '\'', '"':
			quote = &stOpen{char: c, line: line}
		case '#':
			// Only a word-initial # starts a comment; ${#x} does not.
			if i == 0 || script[i-1] == ' ' || script[i-1] == '\t' || script[i-1] == '\n' || script[i-1] == ';' {
				comment = true
			}
		case '{', '(', '[':
			stack = append(stack, stOpen{char: c, line: line})
		case '}', ')', ']':
			want := stClosers[c]
			if len(stack) == 0 || stack[len(stack)-1].char != want {
				return append(errs, fmt.Sprintf("line %d: unexpected %q", line, c))
			}
			stack = stack[:len(stack)-1]
		}
	}

	if quote != nil {
		errs = append(errs, fmt.Sprintf("line %d: unterminated %c quote", quote.line, quote.char))
	}
	for _, o := range stack {
		errs = append(errs, fmt.Sprintf("line %d: unclosed %q", o.line, o.char))
	}
	return errs
}

// stCheckKeywordBlocks verifies that if/fi, loop/done and case/esac pair up
// when each block starts its own line.
func stCheckKeywordBlocks(script string) []string {
	var (
		errs  []string
		stack []string
	)
	stEachCodeLine(script, func(n int, line string) {
		fields := strings.Fields(line)
		switch kw := strings.TrimSuffix(fields[0], ";"); kw {
		case "if", "for", "while", "until", "case":
			stack = append(stack, kw)
		case "fi", "done", "esac":
			if len(stack) == 0 || !slices.Contains(stKeywordPairs[kw], stack[len(stack)-1]) {
				errs = append(errs, fmt.Sprintf("line %d: %q without a matching opener", n, kw))
				return
			}
			stack = stack[:len(stack)-1]
		}
	})
	for _, kw := range stack {
		errs = append(errs, fmt.Sprintf("%q block is never closed", kw))
	}
	return errs
}

// stCheckFunctionDeclarations flags "name()" lines whose body brace is not
// on the same line; the hook snippets always open the body inline.
func stCheckFunctionDeclarations(script string) []string {
	var errs []string
	stEachCodeLine(script, func(n int, line string) {
		if stBareFuncRe.MatchString(line) {
			errs = append(errs, fmt.Sprintf("line %d: function declaration without an opening brace", n))
		}
	})
	return errs
}

// stCheckHookDefined verifies that the function a hook registration names
// is declared in the same snippet.
func stCheckHookDefined(script string, hookRe *regexp.Regexp) []string {
	var errs []string
	for _, m := range hookRe.FindAllStringSubmatch(script, -1) {
		decl := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(m[1]) + `\s*\(\)`)
		if !decl.MatchString(script) {
			errs = append(errs, fmt.Sprintf("hook %q is registered but never defined", m[1]))
		}
	}
	return errs
}

// stCheckFishBlocks verifies that every fish block opener (function, if,
// for, while, switch, begin) has a matching "end".
func stCheckFishBlocks(script string) []string {
	depth := 0
	var errs []string
	stEachCodeLine(script, func(n int, line string) {
		switch strings.Fields(line)[0] {
		case "function", "if", "for", "while", "switch", "begin":
			depth++
		case "end":
			depth--
			if depth < 0 {
				errs = append(errs, fmt.Sprintf("line %d: unbalanced fish blocks: 'end' without an opener", n))
				depth = 0
			}
		}
	})
	if depth > 0 {
		errs = append(errs, fmt.Sprintf("unbalanced fish blocks: %d block(s) missing 'end'", depth))
	}
	return errs
}

// stFishBashisms are POSIX constructs fish 3.0 rejects.
var stFishBashisms = []struct {
	token string
	hint  string
}{
	{"export ", "'export' is a bash-ism; use 'set -gx' in fish"},
	{"`", "backtick command substitution is not supported in fish"},
	{"[[", "'[[' is a bash-ism; use 'test' in fish"},
	{"$(", "'$(' needs fish 3.4; use '(cmd)'"},
}

// stCheckFishBashisms reports POSIX syntax that fish cannot parse.
func stCheckFishBashisms(script string) []string {
	var errs []string
	stEachCodeLine(script, func(n int, line string) {
		trimmed := strings.TrimSpace(line)
		for _, b := range stFishBashisms {
			if strings.Contains(trimmed, b.token) {
				errs = append(errs, fmt.Sprintf("line %d: %s", n, b.hint))
			}
		}
	})
	return errs
}
