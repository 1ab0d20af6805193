package colorstream

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Separator is the powerline glyph drawn at every segment hand-off.
const Separator = "\ue0b0"

// Markers bracket every escape sequence so that shells can exclude the
// escapes when they compute the visible width of the prompt.
type Markers struct {
	Begin string
	End   string

	// Text, when set, escapes segment text for the shell's prompt
	// expansion. It is never applied to escape sequences or markers.
	Text *strings.Replacer
}

var (
	// ReadlineMarkers are the RL_PROMPT_START_IGNORE / RL_PROMPT_END_IGNORE
	// bytes understood by bash.
	ReadlineMarkers = Markers{Begin: "\x01", End: "\x02"}

	// ZshMarkers are zsh's literal-escape prompt brackets. A literal % in
	// text would start a prompt escape, so it is doubled.
	ZshMarkers = Markers{Begin: "%{", End: "%}", Text: strings.NewReplacer("%", "%%")}

	// NoMarkers emits bare escape sequences.
	NoMarkers = Markers{}
)

// Segment is one independently rendered unit of the prompt line. Render may
// call any Stream method, or render nothing at all.
type Segment interface {
	Render(w *Stream) error
}

// Stream wraps a sink and owns the tracked background color.
//
// Segment boundaries are signalled eagerly but paid for lazily: the
// transition escape is only emitted on the first actual output after a
// boundary, so a segment that writes nothing leaves no bytes behind.
type Stream struct {
	w       io.Writer
	markers Markers
	profile termenv.Profile

	bg      Color
	empty   bool
	pending bool
}

// Option configures a Stream.
type Option func(*Stream)

// WithMarkers sets the zero-width markers placed around escape sequences.
func WithMarkers(m Markers) Option {
	return func(s *Stream) { s.markers = m }
}

// WithProfile sets the color depth used for escape sequences. Anything other
// than termenv.TrueColor is down-converted by termenv; termenv.Ascii drops
// color escapes entirely while still emitting resets.
func WithProfile(p termenv.Profile) Option {
	return func(s *Stream) { s.profile = p }
}

// New returns a Stream writing to w. The defaults are readline markers and
// 24-bit color.
func New(w io.Writer, opts ...Option) *Stream {
	s := &Stream{
		w:       w,
		markers: ReadlineMarkers,
		profile: termenv.TrueColor,
		bg:      Black,
		empty:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Background returns the tracked background color.
func (s *Stream) Background() Color {
	return s.bg
}

// StartSegment begins a new top-level segment with background bg. On a line
// that already has output, the previous background becomes the foreground of
// the transition glyph.
func (s *Stream) StartSegment(bg Color) error {
	s.pending = false
	if s.empty {
		return s.setBg(bg)
	}
	if err := s.setFg(s.bg); err != nil {
		return err
	}
	if err := s.setBg(bg); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, Separator)
	return err
}

// SetFg sets the foreground color. A pending boundary is resolved first using
// the current background.
func (s *Stream) SetFg(c Color) error {
	if s.pending {
		if err := s.StartSegment(s.bg); err != nil {
			return err
		}
	}
	return s.setFg(c)
}

// SetBg sets the background color. Directly after a boundary this starts the
// segment, so the transition glyph is never skipped.
func (s *Stream) SetBg(c Color) error {
	if s.pending {
		return s.StartSegment(c)
	}
	return s.setBg(c)
}

// Write passes p through to the sink, resolving a pending boundary first.
// Empty writes are dropped and do not resolve the boundary.
func (s *Stream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.pending {
		if err := s.StartSegment(s.bg); err != nil {
			return 0, err
		}
	}
	s.empty = false
	if s.markers.Text == nil {
		return s.w.Write(p)
	}
	if _, err := io.WriteString(s.w, s.markers.Text.Replace(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Printf formats text into the stream.
func (s *Stream) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(s, format, args...)
	return err
}

// WriteSegment renders seg between two boundaries. Colors seg changes
// internally do not affect how the next segment hands off.
func (s *Stream) WriteSegment(seg Segment) error {
	s.pending = true
	if err := seg.Render(s); err != nil {
		return err
	}
	s.pending = true
	return nil
}

// EndLine draws the closing glyph in the last background color over the
// terminal's default background, then resets. The final reset is attempted
// even when drawing the glyph fails; the first error is returned.
func (s *Stream) EndLine() error {
	s.pending = false
	var err error
	if !s.empty {
		fg := s.bg
		err = s.Reset()
		if err == nil {
			err = s.setFg(fg)
		}
		if err == nil {
			_, err = io.WriteString(s.w, Separator)
		}
	}
	if rerr := s.Reset(); err == nil {
		err = rerr
	}
	s.empty = true
	return err
}

// NewLine ends the current line and starts an independent one.
func (s *Stream) NewLine() error {
	if err := s.EndLine(); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, "\n"); err != nil {
		return err
	}
	s.empty = true
	s.pending = false
	return nil
}

// Reset clears both colors and sets the tracked background back to black.
func (s *Stream) Reset() error {
	s.bg = Black
	return s.escape("0")
}

func (s *Stream) setFg(c Color) error {
	s.empty = false
	return s.escape(s.sequence(c, false))
}

func (s *Stream) setBg(c Color) error {
	s.empty = false
	s.bg = c
	return s.escape(s.sequence(c, true))
}

// sequence returns the SGR parameters selecting c.
func (s *Stream) sequence(c Color, bg bool) string {
	if s.profile == termenv.TrueColor {
		layer := 38
		if bg {
			layer = 48
		}
		return fmt.Sprintf("%d;2;%d;%d;%d", layer, c.R, c.G, c.B)
	}
	return s.profile.Color(c.Hex()).Sequence(bg)
}

func (s *Stream) escape(params string) error {
	if params == "" {
		return nil
	}
	_, err := io.WriteString(s.w, s.markers.Begin+"\x1b["+params+"m"+s.markers.End)
	return err
}
