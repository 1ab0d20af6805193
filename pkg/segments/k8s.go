package segments

import (
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors/k8s"
	"gitlab.com/tinyland/lab/prompt-line/pkg/colorstream"
	"gitlab.com/tinyland/lab/prompt-line/pkg/theme"
)

// K8s shows the primary cluster's API server and, when MGR_KUBECONFIG is
// set, a second badge naming the manager cluster.
type K8s struct {
	Clusters k8s.Info
}

func (s K8s) Render(w *colorstream.Stream) error {
	if err := renderServer(w, s.Clusters.Server); err != nil {
		return err
	}
	return renderManager(w, s.Clusters.Manager)
}

func renderServer(w *colorstream.Stream, out collectors.Outcome[string]) error {
	if !out.Applicable() {
		return nil
	}
	t := theme.Current
	server, err := out.Get()
	if err != nil {
		return broken(w, t.BrokenText)
	}
	return badge(w, t.K8sBG, t.K8sText, " ☸  "+server+" ")
}

func renderManager(w *colorstream.Stream, out collectors.Outcome[string]) error {
	if !out.Applicable() {
		return nil
	}
	t := theme.Current
	name, err := out.Get()
	if err != nil {
		return subBadge(w, t.Broken, t.BrokenText, " ??? ")
	}
	return subBadge(w, t.K8sManagerBG, t.K8sManagerText, " "+name+" ")
}
