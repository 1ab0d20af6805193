package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
)

// Detect returns the shell prompt-line is rendering for. It checks in order:
//
//  1. the parent process, which is the shell running the prompt hook
//  2. $SHELL, the login shell
//  3. Falls back to Bash, whose markers are the historical default
func Detect(env collectors.Env) ShellType {
	return detectWith(env, shParentName)
}

func detectWith(env collectors.Env, parent func() (string, error)) ShellType {
	if name, err := parent(); err == nil {
		if sh := shParseShellName(name); sh != "" {
			return sh
		}
	}
	if sh := shDetectFromEnv(env); sh != "" {
		return sh
	}
	return Bash
}

// shDetectFromEnv maps the $SHELL environment variable to a ShellType.
func shDetectFromEnv(env collectors.Env) ShellType {
	shellPath := env.Get("SHELL")
	if shellPath == "" {
		return ""
	}
	return shParseShellName(filepath.Base(shellPath))
}

// shParentName returns the executable name of the parent process.
func shParentName() (string, error) {
	p, err := process.NewProcess(int32(os.Getppid()))
	if err != nil {
		return "", err
	}
	return p.Name()
}

// shParseShellName maps a shell binary name (e.g. "zsh", "-bash") to a
// ShellType. Returns empty string if unrecognized.
func shParseShellName(name string) ShellType {
	// Strip leading dash for login shells (e.g., "-zsh").
	name = strings.TrimPrefix(filepath.Base(name), "-")
	name = strings.ToLower(name)

	switch name {
	case "bash":
		return Bash
	case "zsh":
		return Zsh
	case "fish":
		return Fish
	default:
		return ""
	}
}
