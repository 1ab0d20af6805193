// Package git resolves the version-control state of the working directory.
//
// Two halves are computed independently: the repository State (detached,
// on a branch with optional upstream divergence, or empty) and the Statuses
// of the index and work tree. A failure in one never suppresses the other.
package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
)

// ErrNotRepository is returned by Open when no repository encloses the
// directory.
var ErrNotRepository = errors.New("not a git repository")

// ---------- Result types ----------

// Info is everything the Git segment needs to render.
type Info struct {
	State    collectors.Outcome[State]
	Statuses collectors.Outcome[Statuses]
}

// Repository is an opened repository.
type Repository struct {
	repo *gogit.Repository
}

// ---------- Discovery ----------

// Open finds the repository enclosing dir, searching parent directories.
func Open(dir string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	return &Repository{repo: repo}, nil
}

// Collect opens the repository enclosing dir and resolves both halves.
// Outside any repository the outcome is absent; a repository that exists
// but cannot be opened is a failure and no status scan is attempted.
func Collect(ctx context.Context, dir string) collectors.Outcome[Info] {
	r, err := Open(dir)
	if errors.Is(err, ErrNotRepository) {
		return collectors.Absent[Info]()
	}
	if err != nil {
		return collectors.Failed[Info](err)
	}
	return collectors.Found(Info{
		State:    collectors.From(r.State(ctx)),
		Statuses: collectors.From(r.Statuses(ctx)),
	})
}
