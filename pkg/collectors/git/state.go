package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const shortIDLen = 7

// Kind classifies where HEAD points.
type Kind int

const (
	// Empty is an unborn HEAD: the current branch has no commits yet.
	Empty Kind = iota
	// Detached is a HEAD pointing directly at a commit.
	Detached
	// OnBranch is a HEAD pointing at an existing local branch.
	OnBranch
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Detached:
		return "detached"
	case OnBranch:
		return "branch"
	default:
		return "empty"
	}
}

// State is the classification of a repository's HEAD. ShortID is set only
// for Detached; Branch and Upstream only for OnBranch.
type State struct {
	Kind     Kind
	ShortID  string
	Branch   string
	Upstream *Upstream
}

// Upstream is the divergence of a branch from its tracking branch.
type Upstream struct {
	Ahead  Count
	Behind Count
}

// State classifies HEAD.
func (r *Repository) State(ctx context.Context) (State, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return State{Kind: Empty}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading HEAD: %w", err)
	}

	if head.Type() == plumbing.HashReference {
		return State{Kind: Detached, ShortID: shortID(head.Hash())}, nil
	}

	target := head.Target()
	tip, err := r.repo.Reference(target, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return State{Kind: Empty}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("resolving %s: %w", target, err)
	}

	up, err := r.upstream(ctx, target, tip.Hash())
	if err != nil {
		return State{}, err
	}
	return State{Kind: OnBranch, Branch: target.Short(), Upstream: up}, nil
}

// upstream returns the divergence of branch from its configured tracking
// ref, or nil when no tracking ref is configured or it does not resolve.
func (r *Repository) upstream(ctx context.Context, branch plumbing.ReferenceName, local plumbing.Hash) (*Upstream, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	bc, ok := cfg.Branches[branch.Short()]
	if !ok || bc.Merge == "" {
		return nil, nil
	}

	tracking := bc.Merge
	if bc.Remote != "" && bc.Remote != "." {
		tracking = plumbing.NewRemoteReferenceName(bc.Remote, bc.Merge.Short())
	}
	ref, err := r.repo.Reference(tracking, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", tracking, err)
	}

	ahead, behind, err := r.divergence(ctx, local, ref.Hash())
	if err != nil {
		return nil, err
	}
	return &Upstream{Ahead: Saturate(ahead), Behind: Saturate(behind)}, nil
}

// divergence counts the commits reachable from local but not upstream, and
// the reverse.
func (r *Repository) divergence(ctx context.Context, local, upstream plumbing.Hash) (ahead, behind int, err error) {
	if local == upstream {
		return 0, 0, nil
	}
	mine, err := r.ancestors(ctx, local)
	if err != nil {
		return 0, 0, err
	}
	theirs, err := r.ancestors(ctx, upstream)
	if err != nil {
		return 0, 0, err
	}
	for h := range mine {
		if _, ok := theirs[h]; !ok {
			ahead++
		}
	}
	for h := range theirs {
		if _, ok := mine[h]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}

// ancestors returns tip and every commit reachable from it. Parents missing
// from the object store (shallow clones) end the walk on that line.
func (r *Repository) ancestors(ctx context.Context, tip plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	seen := map[plumbing.Hash]struct{}{tip: {}}
	queue := []plumbing.Hash{tip}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := queue[0]
		queue = queue[1:]

		c, err := object.GetCommit(r.repo.Storer, h)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading commit %s: %w", shortID(h), err)
		}
		for _, p := range c.ParentHashes {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			queue = append(queue, p)
		}
	}
	return seen, nil
}

func shortID(h plumbing.Hash) string {
	return h.String()[:shortIDLen]
}
