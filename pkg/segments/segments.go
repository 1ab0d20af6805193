// Package segments implements the badges of the prompt line. Every segment
// holds a snapshot gathered before rendering and performs no I/O of its own
// beyond writing to the stream.
package segments

import (
	"strconv"
	"time"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
	"gitlab.com/tinyland/lab/prompt-line/pkg/colorstream"
	"gitlab.com/tinyland/lab/prompt-line/pkg/sysinfo"
	"gitlab.com/tinyland/lab/prompt-line/pkg/theme"
)

const skull = "☠"

// clockBase is U+1F550 CLOCK FACE ONE OCLOCK; the half-past faces follow
// twelve code points later.
const clockBase = 0x1F550

// badge fills the segment with bg, sets fg and writes text.
func badge(w *colorstream.Stream, bg, fg colorstream.Color, text string) error {
	if err := w.SetBg(bg); err != nil {
		return err
	}
	if err := w.SetFg(fg); err != nil {
		return err
	}
	_, err := w.Write([]byte(text))
	return err
}

// subBadge starts a nested segment inside the current one.
func subBadge(w *colorstream.Stream, bg, fg colorstream.Color, text string) error {
	if err := w.StartSegment(bg); err != nil {
		return err
	}
	if err := w.SetFg(fg); err != nil {
		return err
	}
	_, err := w.Write([]byte(text))
	return err
}

func broken(w *colorstream.Stream, fg colorstream.Color) error {
	return badge(w, theme.Current.Broken, fg, " "+skull+" ")
}

// ---------- Time ----------

// Time shows the wall clock with a clock face for the nearest half hour.
type Time struct {
	Now time.Time
}

func (s Time) Render(w *colorstream.Stream) error {
	t := theme.Current
	return badge(w, t.TimeBG, t.TimeText, " "+ClockFace(s.Now)+" "+s.Now.Format("15:04:05.000")+" ")
}

// ClockFace returns the clock emoji closest to t: quarter past and later
// shows the half-hour face, quarter to and later the next full hour.
func ClockFace(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	half := false
	switch m := t.Minute(); {
	case m >= 45:
		hour++
	case m > 15:
		half = true
	}
	code := (hour-1)%12 + clockBase
	if half {
		code += 12
	}
	return string(rune(code))
}

// ---------- Hostname ----------

// Hostname shows the machine name, highlighted inside ssh sessions.
type Hostname struct {
	Host collectors.Outcome[sysinfo.Host]
}

func (s Hostname) Render(w *colorstream.Stream) error {
	t := theme.Current
	h, err := s.Host.Get()
	if err != nil {
		return broken(w, t.HostText)
	}
	if h.SSH {
		return badge(w, t.HostSSH, t.HostText, " 🔐 "+h.Name+" ")
	}
	return badge(w, t.HostLocal, t.HostText, " 💻 "+h.Name+" ")
}

// ---------- User ----------

// User shows the effective user, in red for root.
type User struct {
	User collectors.Outcome[sysinfo.User]
}

func (s User) Render(w *colorstream.Stream) error {
	t := theme.Current
	u, err := s.User.Get()
	if err != nil {
		return broken(w, t.BrokenText)
	}
	bg := t.UserBG
	if u.Root {
		bg = t.UserRoot
	}
	return badge(w, bg, t.UserText, " "+u.Name+" ")
}

// ---------- Cwd ----------

// Cwd shows the working directory relative to home.
type Cwd struct {
	Dir collectors.Outcome[string]
}

func (s Cwd) Render(w *colorstream.Stream) error {
	t := theme.Current
	dir, err := s.Dir.Get()
	if err != nil {
		return broken(w, t.BrokenText)
	}
	return badge(w, t.CwdBG, t.CwdText, " "+dir+" ")
}

// ---------- Openstack ----------

// Openstack shows the selected OpenStack project, if any.
type Openstack struct {
	Project collectors.Outcome[string]
}

func (s Openstack) Render(w *colorstream.Stream) error {
	if !s.Project.Applicable() {
		return nil
	}
	t := theme.Current
	project, err := s.Project.Get()
	if err != nil {
		return broken(w, t.BrokenText)
	}
	return badge(w, t.OpenstackBG, t.OpenstackText, " ⏹  "+project+" ")
}

// ---------- Exit code ----------

// ExitCode shows the previous command's status. A nil Code means no
// command has run yet.
type ExitCode struct {
	Code *int
}

func (s ExitCode) Render(w *colorstream.Stream) error {
	t := theme.Current
	switch {
	case s.Code == nil:
		return badge(w, t.ExitNone, t.ExitText, "   ")
	case *s.Code == 0:
		return badge(w, t.ExitSuccess, t.ExitText, "   ")
	default:
		return badge(w, t.ExitFailure, t.ExitText, " "+strconv.Itoa(*s.Code)+" ")
	}
}
