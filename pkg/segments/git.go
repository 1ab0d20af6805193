package segments

import (
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors/git"
	"gitlab.com/tinyland/lab/prompt-line/pkg/colorstream"
	"gitlab.com/tinyland/lab/prompt-line/pkg/theme"
)

// Git shows the repository state followed by one sub-badge per non-empty
// status bucket. Outside a repository it renders nothing.
type Git struct {
	Repo collectors.Outcome[git.Info]
}

func (s Git) Render(w *colorstream.Stream) error {
	if !s.Repo.Applicable() {
		return nil
	}
	info, err := s.Repo.Get()
	if err != nil {
		return broken(w, theme.Current.GitText)
	}
	if err := renderRepoState(w, info.State); err != nil {
		return err
	}
	return renderStatuses(w, info.Statuses)
}

func renderRepoState(w *colorstream.Stream, out collectors.Outcome[git.State]) error {
	t := theme.Current
	st, err := out.Get()
	if err != nil {
		return broken(w, t.GitText)
	}
	switch st.Kind {
	case git.Detached:
		return badge(w, t.GitDetached, t.GitText, " 📤 "+st.ShortID+" ")
	case git.OnBranch:
		if st.Upstream == nil {
			return badge(w, t.GitNoUpstream, t.GitText, " ⭠ "+st.Branch+" ")
		}
		return badge(w, t.GitUpstream, t.GitText,
			" ⭠ "+st.Branch+" "+st.Upstream.Ahead.String()+"⬆/"+st.Upstream.Behind.String()+"⬇ ")
	default:
		return badge(w, t.GitEmpty, t.GitEmptyText, " ∅  no commits ")
	}
}

func renderStatuses(w *colorstream.Stream, out collectors.Outcome[git.Statuses]) error {
	t := theme.Current
	st, err := out.Get()
	if err != nil {
		return subBadge(w, t.Broken, t.BrokenText, " "+skull+" ")
	}
	buckets := []struct {
		n    git.Count
		bg   colorstream.Color
		icon string
	}{
		{st.Staged, t.StatusStaged, "✅"},
		{st.NotStaged, t.StatusNotStaged, "🖍"},
		{st.Untracked, t.StatusUntracked, "❓"},
		{st.Conflicted, t.StatusConflicted, "💔"},
	}
	for _, b := range buckets {
		if b.n == 0 {
			continue
		}
		if err := subBadge(w, b.bg, t.GitText, " "+b.n.String()+b.icon+" "); err != nil {
			return err
		}
	}
	return nil
}
