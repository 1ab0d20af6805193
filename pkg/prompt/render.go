package prompt

import (
	"bytes"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"

	"gitlab.com/tinyland/lab/prompt-line/pkg/colorstream"
	"gitlab.com/tinyland/lab/prompt-line/pkg/segments"
)

// Options controls how the line is written.
type Options struct {
	Markers colorstream.Markers
	Profile termenv.Profile

	// Newline finishes with a line break instead of a trailing space, so
	// the command is typed on the line below the segments.
	Newline bool

	// Log, when set, receives the visible width of the line at debug level.
	Log *logrus.Entry
}

// DefaultOptions returns bash markers, 24-bit color and a one-line layout.
func DefaultOptions() Options {
	return Options{
		Markers: colorstream.ReadlineMarkers,
		Profile: termenv.TrueColor,
	}
}

// Segments builds the segments for snap in display order: time, hostname,
// user, cwd, git, openstack, k8s, exit code.
func Segments(snap Snapshot) []colorstream.Segment {
	return []colorstream.Segment{
		segments.Time{Now: snap.Now},
		segments.Hostname{Host: snap.System.Host},
		segments.User{User: snap.System.User},
		segments.Cwd{Dir: snap.System.Cwd},
		segments.Git{Repo: snap.Repo},
		segments.Openstack{Project: snap.System.Openstack},
		segments.K8s{Clusters: snap.Clusters},
		segments.ExitCode{Code: snap.ExitCode},
	}
}

// Render writes segs as one line to w. Only write errors are returned; the
// line may then be partially written.
func Render(w io.Writer, segs []colorstream.Segment, opts Options) error {
	var line *bytes.Buffer
	if opts.Log != nil && opts.Log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		line = new(bytes.Buffer)
		w = io.MultiWriter(w, line)
	}

	s := colorstream.New(w, colorstream.WithMarkers(opts.Markers), colorstream.WithProfile(opts.Profile))
	for _, seg := range segs {
		if err := s.WriteSegment(seg); err != nil {
			return err
		}
	}

	if opts.Newline {
		if err := s.NewLine(); err != nil {
			return err
		}
	} else {
		if err := s.EndLine(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
	}

	if line != nil {
		opts.Log.WithField("width", VisibleWidth(line.String(), opts.Markers)).Debug("rendered prompt")
	}
	return nil
}

// VisibleWidth returns the number of terminal cells the rendered line
// occupies once the shell drops the markers and escape sequences.
func VisibleWidth(line string, m colorstream.Markers) int {
	if m.Begin != "" {
		line = strings.ReplaceAll(line, m.Begin, "")
	}
	if m.End != "" {
		line = strings.ReplaceAll(line, m.End, "")
	}
	if m.Text != nil && m.Begin == colorstream.ZshMarkers.Begin {
		line = strings.ReplaceAll(line, "%%", "%")
	}
	return ansi.StringWidth(strings.TrimRight(line, "\n"))
}
