// Package prompt gathers everything the prompt shows, once, and drives the
// segments through a single colored stream in their fixed order.
package prompt

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors/git"
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors/k8s"
	"gitlab.com/tinyland/lab/prompt-line/pkg/logging"
	"gitlab.com/tinyland/lab/prompt-line/pkg/sysinfo"
)

// Sources are the external data sources behind a Snapshot.
type Sources struct {
	Env   collectors.Env
	Probe sysinfo.Probe
	Now   func() time.Time

	// Home abbreviates the working directory and locates ~/.kube/config.
	Home string

	// Kubernetes configures the cluster badges; its Home is filled from
	// Sources.Home.
	Kubernetes k8s.Config

	// Log receives source failures at debug level. Nil drops them.
	Log *logrus.Entry
}

// DefaultSources reads the running process's environment and system.
func DefaultSources(log *logrus.Entry) Sources {
	env := collectors.OSEnv()
	home := env.Get("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return Sources{
		Env:   env,
		Probe: sysinfo.DefaultProbe(),
		Now:   time.Now,
		Home:  home,
		Log:   log,
	}
}

// Snapshot is all data shown on one prompt line.
type Snapshot struct {
	Now      time.Time
	System   sysinfo.Snapshot
	Repo     collectors.Outcome[git.Info]
	Clusters k8s.Info

	// ExitCode is nil when no command has run yet.
	ExitCode *int
}

// Gather queries every source once. Failures are kept in the snapshot for
// the segments to show and logged at debug level.
func Gather(ctx context.Context, src Sources, exitCode *int) Snapshot {
	snap := Snapshot{
		Now:      src.Now(),
		System:   sysinfo.Collect(ctx, src.Probe, src.Env, src.Home),
		Repo:     gatherRepo(ctx, src.Probe),
		ExitCode: exitCode,
	}

	kcfg := src.Kubernetes
	kcfg.Home = src.Home
	snap.Clusters = k8s.Collect(ctx, src.Env, kcfg)

	log := src.Log
	if log == nil {
		log = logging.Discard().Component("collect")
	}
	logFailures(log, snap)
	return snap
}

// gatherRepo discovers the repository from the working directory. When the
// directory itself is unknown the repository cannot be determined either.
func gatherRepo(ctx context.Context, p sysinfo.Probe) collectors.Outcome[git.Info] {
	dir, err := p.Getwd()
	if err != nil {
		return collectors.Failed[git.Info](err)
	}
	return git.Collect(ctx, dir)
}

type sourceErr struct {
	source string
	err    error
}

func logFailures(log *logrus.Entry, snap Snapshot) {
	failures := []sourceErr{
		{"hostname", snap.System.Host.Err()},
		{"user", snap.System.User.Err()},
		{"cwd", snap.System.Cwd.Err()},
		{"openstack", snap.System.Openstack.Err()},
		{"git", snap.Repo.Err()},
		{"kubeconfig", snap.Clusters.Server.Err()},
		{"manager kubeconfig", snap.Clusters.Manager.Err()},
	}
	if info, err := snap.Repo.Get(); err == nil {
		failures = append(failures,
			sourceErr{"git state", info.State.Err()},
			sourceErr{"git status", info.Statuses.Err()},
		)
	}
	for _, f := range failures {
		if f.err != nil {
			log.WithError(f.err).WithField("source", f.source).Debug("data source failed")
		}
	}
}
