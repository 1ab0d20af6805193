// Package theme holds the fixed color palette of the prompt segments.
package theme

import "gitlab.com/tinyland/lab/prompt-line/pkg/colorstream"

var rgb = colorstream.RGB

// Theme defines the complete color palette for the prompt line.
type Theme struct {
	Name string

	// Shared
	Broken     colorstream.Color // any segment whose data source failed
	BrokenText colorstream.Color

	// Time
	TimeBG   colorstream.Color
	TimeText colorstream.Color

	// Hostname
	HostLocal colorstream.Color
	HostSSH   colorstream.Color
	HostText  colorstream.Color

	// User
	UserRoot colorstream.Color
	UserBG   colorstream.Color
	UserText colorstream.Color

	// Cwd
	CwdBG   colorstream.Color
	CwdText colorstream.Color

	// Git
	GitDetached   colorstream.Color
	GitNoUpstream colorstream.Color
	GitUpstream   colorstream.Color
	GitEmpty      colorstream.Color
	GitText       colorstream.Color
	GitEmptyText  colorstream.Color

	// Git status sub-badges
	StatusStaged     colorstream.Color
	StatusNotStaged  colorstream.Color
	StatusUntracked  colorstream.Color
	StatusConflicted colorstream.Color

	// Openstack
	OpenstackBG   colorstream.Color
	OpenstackText colorstream.Color

	// K8s
	K8sBG          colorstream.Color
	K8sText        colorstream.Color
	K8sManagerBG   colorstream.Color
	K8sManagerText colorstream.Color

	// Exit code
	ExitNone    colorstream.Color
	ExitSuccess colorstream.Color
	ExitFailure colorstream.Color
	ExitText    colorstream.Color
}

// Current is the palette every segment renders with.
var Current = Theme{
	Name: "default",

	Broken:     rgb(255, 0, 0),
	BrokenText: rgb(230, 230, 230),

	TimeBG:   rgb(80, 80, 80),
	TimeText: rgb(200, 200, 200),

	HostLocal: rgb(30, 30, 30),
	HostSSH:   rgb(255, 80, 0),
	HostText:  rgb(255, 255, 255),

	UserRoot: rgb(255, 30, 30),
	UserBG:   rgb(30, 30, 255),
	UserText: rgb(230, 230, 230),

	CwdBG:   rgb(60, 60, 60),
	CwdText: rgb(210, 210, 210),

	GitDetached:   rgb(0, 0, 180),
	GitNoUpstream: rgb(180, 0, 0),
	GitUpstream:   rgb(0, 180, 0),
	GitEmpty:      rgb(255, 255, 255),
	GitText:       rgb(230, 230, 230),
	GitEmptyText:  rgb(30, 30, 30),

	StatusStaged:     rgb(0, 110, 0),
	StatusNotStaged:  rgb(180, 120, 0),
	StatusUntracked:  rgb(90, 90, 90),
	StatusConflicted: rgb(160, 0, 160),

	OpenstackBG:   rgb(80, 80, 255),
	OpenstackText: rgb(255, 255, 255),

	K8sBG:          rgb(10, 10, 200),
	K8sText:        rgb(230, 230, 230),
	K8sManagerBG:   rgb(180, 180, 0),
	K8sManagerText: rgb(0, 0, 0),

	ExitNone:    rgb(0, 0, 100),
	ExitSuccess: rgb(0, 100, 0),
	ExitFailure: rgb(100, 0, 0),
	ExitText:    rgb(200, 200, 200),
}
