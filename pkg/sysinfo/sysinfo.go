// Package sysinfo gathers the local identity shown on the prompt: host name
// and ssh session, effective user, working directory and the OpenStack
// project selected in the environment.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
)

// ErrUnknownUser means the effective uid has no passwd entry.
var ErrUnknownUser = errors.New("unknown user")

// Environment variables consulted by Collect.
var (
	sshEnvVars       = []string{"SSH_CLIENT", "SSH_CONNECTION", "SSH_TTY"}
	openstackEnvVars = []string{"OS_PROJECT_NAME", "OS_TENANT_NAME"}
)

// Host identifies the machine.
type Host struct {
	Name string
	SSH  bool // the shell runs inside an ssh session
}

// User identifies the effective user.
type User struct {
	Name string
	Root bool
}

// Snapshot is the identity data captured once per render.
type Snapshot struct {
	Host      collectors.Outcome[Host]
	User      collectors.Outcome[User]
	Cwd       collectors.Outcome[string] // already in display form
	Openstack collectors.Outcome[string]
}

// Probe holds the OS queries behind Collect so tests can replace them.
type Probe struct {
	Hostname   func() (string, error)
	EUID       func() int
	LookupUser func(uid int) (string, error)
	Getwd      func() (string, error)
}

// DefaultProbe queries the running system.
func DefaultProbe() Probe {
	return Probe{
		Hostname:   siHostname,
		EUID:       siEffectiveUID,
		LookupUser: siLookupUser,
		Getwd:      os.Getwd,
	}
}

// Collect gathers the snapshot. home is the user's home directory and may be
// empty, in which case paths are shown absolute.
func Collect(_ context.Context, p Probe, env collectors.Env, home string) Snapshot {
	return Snapshot{
		Host:      collectors.From(siHost(p, env)),
		User:      collectors.From(siUser(p)),
		Cwd:       collectors.From(siCwd(p, home)),
		Openstack: Openstack(env),
	}
}

// Openstack returns the project selected by OS_PROJECT_NAME, falling back
// to the legacy OS_TENANT_NAME. Empty values count as unset.
func Openstack(env collectors.Env) collectors.Outcome[string] {
	for _, k := range openstackEnvVars {
		if project := env.Get(k); project != "" {
			return collectors.Found(project)
		}
	}
	return collectors.Absent[string]()
}

// InSSH reports whether any of the variables sshd exports is set.
func InSSH(env collectors.Env) bool {
	for _, k := range sshEnvVars {
		if env.Has(k) {
			return true
		}
	}
	return false
}

// DisplayPath abbreviates dir relative to home as "~" or "~/rel".
func DisplayPath(dir, home string) string {
	if home == "" {
		return dir
	}
	rel, err := filepath.Rel(home, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dir
	}
	if rel == "." {
		return "~"
	}
	return "~" + string(filepath.Separator) + rel
}

func siHost(p Probe, env collectors.Env) (Host, error) {
	name, err := p.Hostname()
	if err != nil {
		return Host{}, fmt.Errorf("hostname: %w", err)
	}
	if name == "" {
		return Host{}, errors.New("hostname: empty")
	}
	return Host{Name: name, SSH: InSSH(env)}, nil
}

func siUser(p Probe) (User, error) {
	uid := p.EUID()
	name, err := p.LookupUser(uid)
	if err != nil {
		return User{}, err
	}
	return User{Name: name, Root: uid == 0}, nil
}

func siCwd(p Probe, home string) (string, error) {
	dir, err := p.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return DisplayPath(dir, home), nil
}

// siLookupUser resolves uid to a login name through the passwd database.
func siLookupUser(uid int) (string, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	var unknown user.UnknownUserIdError
	if errors.As(err, &unknown) {
		return "", fmt.Errorf("uid %d: %w", uid, ErrUnknownUser)
	}
	if err != nil {
		return "", fmt.Errorf("uid %d: %w", uid, err)
	}
	return u.Username, nil
}
