// Package k8s resolves the API server of the selected Kubernetes cluster
// from kubeconfig files. Nothing here talks to a cluster; only the local
// kubeconfig is read, via client-go's clientcmd loader.
package k8s

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
)

// Environment variables consulted by Collect.
const (
	EnvKubeconfig        = "KUBECONFIG"
	EnvManagerKubeconfig = "MGR_KUBECONFIG"
)

var (
	// ErrCurrentContextNotSet means the kubeconfig selects no context.
	ErrCurrentContextNotSet = errors.New("current-context is not set")
	// ErrContextNotFound means the selected context is not defined.
	ErrContextNotFound = errors.New("context not found")
	// ErrClusterNotFound means the selected context names an undefined cluster.
	ErrClusterNotFound = errors.New("cluster not found")
)

// ---------- Configuration ----------

// Config holds the configuration for the Kubernetes collector.
type Config struct {
	// Home is the user's home directory, used for the ~/.kube/config
	// fallback when KUBECONFIG is unset. Empty disables the fallback.
	Home string

	// ManagerTrimPrefix and ManagerTrimSuffix shorten the manager
	// cluster's server URL to a display name. Both must match for either
	// to be removed.
	ManagerTrimPrefix string
	ManagerTrimSuffix string
}

// ---------- Result types ----------

// Info holds the two cluster badges' data.
type Info struct {
	// Server is the API server of the primary kubeconfig's current cluster.
	Server collectors.Outcome[string]
	// Manager is the display name of the manager cluster from MGR_KUBECONFIG.
	Manager collectors.Outcome[string]
}

// ---------- Collection ----------

// Collect reads the primary and manager kubeconfigs.
//
// With KUBECONFIG set, its path list is merged first-file-wins and any
// problem is a failure. Without it, ~/.kube/config is tried and any problem
// there means the badge does not apply. MGR_KUBECONFIG names a single file.
func Collect(_ context.Context, env collectors.Env, cfg Config) Info {
	return Info{
		Server:  primary(env, cfg.Home),
		Manager: manager(env, cfg),
	}
}

func primary(env collectors.Env, home string) collectors.Outcome[string] {
	if paths, ok := env(EnvKubeconfig); ok {
		rules := &clientcmd.ClientConfigLoadingRules{Precedence: filepath.SplitList(paths)}
		kc, err := rules.Load()
		if err != nil {
			return collectors.Failed[string](fmt.Errorf("loading %s: %w", EnvKubeconfig, err))
		}
		return collectors.From(ServerOf(kc))
	}

	if home == "" {
		return collectors.Absent[string]()
	}
	kc, err := clientcmd.LoadFromFile(filepath.Join(home, clientcmd.RecommendedHomeDir, clientcmd.RecommendedFileName))
	if err != nil {
		return collectors.Absent[string]()
	}
	server, err := ServerOf(kc)
	if err != nil {
		return collectors.Absent[string]()
	}
	return collectors.Found(server)
}

func manager(env collectors.Env, cfg Config) collectors.Outcome[string] {
	path, ok := env(EnvManagerKubeconfig)
	if !ok {
		return collectors.Absent[string]()
	}
	kc, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return collectors.Failed[string](fmt.Errorf("loading %s: %w", EnvManagerKubeconfig, err))
	}
	server, err := ServerOf(kc)
	if err != nil {
		return collectors.Failed[string](err)
	}
	return collectors.Found(ManagerName(server, cfg.ManagerTrimPrefix, cfg.ManagerTrimSuffix))
}

// ServerOf follows current-context to its cluster and returns the server.
func ServerOf(kc *clientcmdapi.Config) (string, error) {
	if kc == nil || kc.CurrentContext == "" {
		return "", ErrCurrentContextNotSet
	}
	kctx, ok := kc.Contexts[kc.CurrentContext]
	if !ok || kctx == nil {
		return "", fmt.Errorf("%w: %s", ErrContextNotFound, kc.CurrentContext)
	}
	cluster, ok := kc.Clusters[kctx.Cluster]
	if !ok || cluster == nil {
		return "", fmt.Errorf("%w: %s (context %s)", ErrClusterNotFound, kctx.Cluster, kc.CurrentContext)
	}
	return cluster.Server, nil
}

// ManagerName strips prefix and suffix from server when both match, and
// returns server unchanged otherwise.
func ManagerName(server, prefix, suffix string) string {
	s := strings.TrimSpace(server)
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s[len(prefix):], suffix) {
		return server
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, prefix), suffix)
}
