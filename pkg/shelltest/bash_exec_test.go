package shelltest

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors/git"
	"gitlab.com/tinyland/lab/prompt-line/pkg/prompt"
	"gitlab.com/tinyland/lab/prompt-line/pkg/shell"
	"gitlab.com/tinyland/lab/prompt-line/pkg/sysinfo"
)

// stSkipOldBash exits with this status when ${PS1@P} is unavailable.
const stSkipOldBash = 99

// stReadline drops the readline ignore markers, which bash may consume
// while expanding the prompt.
var stReadline = strings.NewReplacer("\x01", "", "\x02", "")

// stRenderHostile renders a prompt whose branch, directory and project names
// are shell code.
func stRenderHostile(t *testing.T, newline bool) []byte {
	t.Helper()
	snap := prompt.Snapshot{
		Now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		System: sysinfo.Snapshot{
			Cwd:       collectors.Found("~/50% `touch pwned-tick`"),
			Openstack: collectors.Found(`\$HOME $(touch pwned-project)`),
		},
		Repo: collectors.Found(git.Info{
			State: collectors.Found(git.State{Kind: git.OnBranch, Branch: "$(touch${IFS}pwned)"}),
		}),
	}
	opts := prompt.DefaultOptions()
	opts.Newline = newline

	var buf bytes.Buffer
	if err := prompt.Render(&buf, prompt.Segments(snap), opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.Bytes()
}

// stExpandBashPrompt installs the bash snippet with a stand-in binary that
// prints line, runs the hook once and returns PS1 as bash would draw it.
func stExpandBashPrompt(t *testing.T, line []byte) (expanded string, dir string) {
	t.Helper()
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not installed")
	}

	dir = t.TempDir()
	fixture := filepath.Join(dir, "line")
	if err := os.WriteFile(fixture, line, 0o644); err != nil {
		t.Fatal(err)
	}
	bin := filepath.Join(dir, "prompt-line")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\ncat '"+fixture+"'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	snippet := filepath.Join(dir, "init.bash")
	if err := os.WriteFile(snippet, []byte(shell.Generate(shell.Bash, shell.Options{BinaryPath: bin})), 0o644); err != nil {
		t.Fatal(err)
	}

	script := `if (( BASH_VERSINFO[0] * 100 + BASH_VERSINFO[1] < 404 )); then exit 99; fi
source "$1"
_prompt_line_precmd
printf '%s' "${PS1@P}"`
	cmd := exec.Command(bash, "--norc", "--noprofile", "-c", script, "bash", snippet)
	cmd.Dir = dir
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == stSkipOldBash {
		t.Skip("bash older than 4.4 cannot expand ${PS1@P}")
	}
	if err != nil {
		t.Fatalf("bash: %v", err)
	}
	return stReadline.Replace(string(out)), dir
}

func TestBashSnippet_NamesAreNotExpandedAsCode(t *testing.T) {
	line := stRenderHostile(t, false)
	got, dir := stExpandBashPrompt(t, line)

	if want := stReadline.Replace(string(line)); got != want {
		t.Errorf("bash changed the rendered line:\ngot  %q\nwant %q", got, want)
	}
	for _, f := range []string{"pwned", "pwned-tick", "pwned-project"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			t.Errorf("prompt expansion ran code and created %s", f)
		}
	}
}

func TestBashSnippet_KeepsTwoLineLayout(t *testing.T) {
	line := stRenderHostile(t, true)
	if line[len(line)-1] != '\n' {
		t.Fatalf("two-line layout must end with a newline: %q", line)
	}

	got, _ := stExpandBashPrompt(t, line)
	if want := stReadline.Replace(string(line)); got != want {
		t.Errorf("bash dropped part of the two-line layout:\ngot  %q\nwant %q", got, want)
	}
}
