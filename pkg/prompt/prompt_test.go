package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	gogit "github.com/go-git/go-git/v5"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors/git"
	"gitlab.com/tinyland/lab/prompt-line/pkg/colorstream"
	"gitlab.com/tinyland/lab/prompt-line/pkg/segments"
	"gitlab.com/tinyland/lab/prompt-line/pkg/sysinfo"
	"gitlab.com/tinyland/lab/prompt-line/pkg/theme"
)

// ---------- Helpers ----------

var noon = time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

func sources(home, cwd string) Sources {
	return Sources{
		Env: collectors.MapEnv(nil),
		Probe: sysinfo.Probe{
			Hostname:   func() (string, error) { return "box", nil },
			EUID:       func() int { return 1000 },
			LookupUser: func(int) (string, error) { return "alice", nil },
			Getwd:      func() (string, error) { return cwd, nil },
		},
		Now:  func() time.Time { return noon },
		Home: home,
	}
}

// emptyRepo initializes a repository without commits under a fresh home.
func emptyRepo(t *testing.T) (home, dir string) {
	t.Helper()
	home = t.TempDir()
	dir = filepath.Join(home, "repo")
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return home, dir
}

func noMarkers() Options {
	opts := DefaultOptions()
	opts.Markers = colorstream.NoMarkers
	return opts
}

func bg(c colorstream.Color) string { return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B) }
func fg(c colorstream.Color) string { return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B) }

// closing is what ends a line whose last background was c.
func closing(c colorstream.Color) string {
	return "\x1b[0m" + fg(c) + colorstream.Separator + "\x1b[0m "
}

func intp(n int) *int { return &n }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func debugLogger(buf *bytes.Buffer) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(l)
}

// ---------- Gather ----------

func TestGatherEmptyRepository(t *testing.T) {
	home, dir := emptyRepo(t)
	snap := Gather(context.Background(), sources(home, dir), nil)

	require.True(t, snap.Repo.Applicable())
	info, err := snap.Repo.Get()
	require.NoError(t, err)
	state, err := info.State.Get()
	require.NoError(t, err)
	assert.Equal(t, git.Empty, state.Kind)

	assert.Equal(t, noon, snap.Now)
	assert.Nil(t, snap.ExitCode)
	assert.False(t, snap.Clusters.Server.Applicable())
	assert.False(t, snap.Clusters.Manager.Applicable())
}

func TestGatherOutsideRepository(t *testing.T) {
	home := t.TempDir()
	snap := Gather(context.Background(), sources(home, home), intp(3))

	assert.False(t, snap.Repo.Applicable())
	require.NotNil(t, snap.ExitCode)
	assert.Equal(t, 3, *snap.ExitCode)

	cwd, err := snap.System.Cwd.Get()
	require.NoError(t, err)
	assert.Equal(t, "~", cwd)
}

func TestGatherUnknownCwdFailsRepository(t *testing.T) {
	src := sources(t.TempDir(), "")
	src.Probe.Getwd = func() (string, error) { return "", os.ErrNotExist }

	snap := Gather(context.Background(), src, nil)
	assert.True(t, snap.Repo.Applicable())
	assert.Error(t, snap.Repo.Err())
	assert.Error(t, snap.System.Cwd.Err())
}

func TestGatherLogsFailuresAtDebug(t *testing.T) {
	var logs bytes.Buffer
	src := sources(t.TempDir(), "")
	src.Probe.Getwd = func() (string, error) { return "", os.ErrNotExist }
	src.Probe.LookupUser = func(int) (string, error) { return "", sysinfo.ErrUnknownUser }
	src.Log = debugLogger(&logs)

	Gather(context.Background(), src, nil)

	assert.Contains(t, logs.String(), "source=git")
	assert.Contains(t, logs.String(), "source=user")
	assert.Contains(t, logs.String(), "source=cwd")
	assert.NotContains(t, logs.String(), "source=hostname")
}

func TestGatherBrokenKubeconfig(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "kc")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o600))

	src := sources(home, home)
	src.Env = collectors.MapEnv(map[string]string{"KUBECONFIG": path})
	snap := Gather(context.Background(), src, nil)

	assert.True(t, snap.Clusters.Server.Applicable())
	assert.Error(t, snap.Clusters.Server.Err())
}

// ---------- Segments ----------

func TestSegmentsFixedOrder(t *testing.T) {
	segs := Segments(Snapshot{})
	require.Len(t, segs, 8)
	assert.IsType(t, segments.Time{}, segs[0])
	assert.IsType(t, segments.Hostname{}, segs[1])
	assert.IsType(t, segments.User{}, segs[2])
	assert.IsType(t, segments.Cwd{}, segs[3])
	assert.IsType(t, segments.Git{}, segs[4])
	assert.IsType(t, segments.Openstack{}, segs[5])
	assert.IsType(t, segments.K8s{}, segs[6])
	assert.IsType(t, segments.ExitCode{}, segs[7])
}

// ---------- Render ----------

func TestRenderEmptyRepositoryShowsOnlyNoCommits(t *testing.T) {
	home, dir := emptyRepo(t)
	snap := Gather(context.Background(), sources(home, dir), nil)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []colorstream.Segment{segments.Git{Repo: snap.Repo}}, noMarkers()))

	th := theme.Current
	want := bg(th.GitEmpty) + fg(th.GitEmptyText) + " ∅  no commits " + closing(th.GitEmpty)
	assert.Equal(t, want, buf.String())
}

func TestRenderExitCodeBadges(t *testing.T) {
	th := theme.Current
	tests := []struct {
		name string
		code *int
		want string
	}{
		{"success", intp(0), bg(th.ExitSuccess) + fg(th.ExitText) + "   " + closing(th.ExitSuccess)},
		{"no previous command", nil, bg(th.ExitNone) + fg(th.ExitText) + "   " + closing(th.ExitNone)},
		{"failure", intp(127), bg(th.ExitFailure) + fg(th.ExitText) + " 127 " + closing(th.ExitFailure)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, []colorstream.Segment{segments.ExitCode{Code: tt.code}}, noMarkers()))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderFullLineInOrder(t *testing.T) {
	home, dir := emptyRepo(t)
	snap := Gather(context.Background(), sources(home, dir), intp(0))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Segments(snap), DefaultOptions()))
	text := ansi.Strip(buf.String())

	want := []string{"10:30:00.000", " 💻 box ", " alice ", " ~" + string(filepath.Separator) + "repo ", "no commits"}
	last := -1
	for _, w := range want {
		i := strings.Index(text, w)
		require.GreaterOrEqual(t, i, 0, "missing %q in %q", w, text)
		assert.Greater(t, i, last, "%q out of order", w)
		last = i
	}
	assert.True(t, strings.HasSuffix(buf.String(), "\x01\x1b[0m\x02 "))
}

func TestRenderEmptyLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, DefaultOptions()))
	assert.Equal(t, "\x01\x1b[0m\x02 ", buf.String())
}

func TestRenderNewlineLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.Newline = true

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, opts))
	assert.Equal(t, "\x01\x1b[0m\x02\n", buf.String())
}

func TestRenderZshMarkers(t *testing.T) {
	opts := DefaultOptions()
	opts.Markers = colorstream.ZshMarkers

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []colorstream.Segment{segments.ExitCode{}}, opts))
	assert.True(t, strings.HasPrefix(buf.String(), "%{\x1b[48;2;"))
	assert.NotContains(t, buf.String(), "\x01")
}

// onBranch is a repository snapshot checked out on branch.
func onBranch(branch string) collectors.Outcome[git.Info] {
	return collectors.Found(git.Info{
		State: collectors.Found(git.State{Kind: git.OnBranch, Branch: branch}),
	})
}

func TestRenderZshDoublesPercentInNames(t *testing.T) {
	opts := DefaultOptions()
	opts.Markers = colorstream.ZshMarkers
	segs := []colorstream.Segment{
		segments.Cwd{Dir: collectors.Found("~/50%")},
		segments.Git{Repo: onBranch("fix-100%")},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, segs, opts))
	out := buf.String()

	assert.Contains(t, out, " ~/50%% ")
	assert.Contains(t, out, " ⭠ fix-100%% ")
	assert.Equal(t, strings.Count(out, "%{"), strings.Count(out, "%}"), "markers must stay balanced")
	assert.Equal(t, strings.Count(out, "%{"), strings.Count(out, "\x1b["), "every marker wraps one escape")
}

func TestRenderBashKeepsNamesVerbatim(t *testing.T) {
	segs := []colorstream.Segment{
		segments.Cwd{Dir: collectors.Found("~/50%")},
		segments.Git{Repo: onBranch("$(touch${IFS}pwned)")},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, segs, DefaultOptions()))

	assert.Contains(t, buf.String(), " ⭠ $(touch${IFS}pwned) ")
	assert.Contains(t, buf.String(), " ~/50% ")
}

func TestRenderANSI256Profile(t *testing.T) {
	opts := noMarkers()
	opts.Profile = termenv.ANSI256

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []colorstream.Segment{segments.ExitCode{}}, opts))
	assert.NotContains(t, buf.String(), ";2;")
}

func TestRenderPropagatesSinkFailure(t *testing.T) {
	err := Render(failingWriter{}, []colorstream.Segment{segments.ExitCode{}}, DefaultOptions())
	assert.Error(t, err)
}

func TestRenderLogsVisibleWidth(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.Log = debugLogger(&logs)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []colorstream.Segment{segments.ExitCode{Code: intp(1)}}, opts))

	assert.Contains(t, logs.String(), "rendered prompt")
	assert.Contains(t, logs.String(), "width=")
}

func TestVisibleWidth(t *testing.T) {
	assert.Equal(t, 2, VisibleWidth("\x01\x1b[31m\x02ab\x01\x1b[0m\x02", colorstream.ReadlineMarkers))
	assert.Equal(t, 2, VisibleWidth("%{\x1b[31m%}ab%{\x1b[0m%}", colorstream.ZshMarkers))
	assert.Equal(t, 2, VisibleWidth("%{\x1b[31m%}5%%%{\x1b[0m%}", colorstream.ZshMarkers))
	assert.Equal(t, 2, VisibleWidth("\x1b[31mab\n", colorstream.NoMarkers))
}
