package git

import (
	"context"
	"fmt"
	"strconv"

	gogit "github.com/go-git/go-git/v5"
)

// CountCeiling is the largest count tracked exactly.
const CountCeiling = 99

// Count is a file or commit count saturating at CountCeiling.
type Count uint8

// Saturate clamps n into a Count.
func Saturate(n int) Count {
	switch {
	case n <= 0:
		return 0
	case n >= CountCeiling:
		return CountCeiling
	default:
		return Count(n)
	}
}

// String returns the count for display; the ceiling shows as "99+".
func (c Count) String() string {
	if c >= CountCeiling {
		return strconv.Itoa(CountCeiling) + "+"
	}
	return strconv.Itoa(int(c))
}

func (c *Count) inc() {
	if *c < CountCeiling {
		*c++
	}
}

// Statuses counts the paths in each bucket of the index and work tree. A
// path can be counted in more than one bucket.
type Statuses struct {
	Staged     Count
	NotStaged  Count
	Untracked  Count
	Conflicted Count
}

// Statuses scans the index and work tree, untracked files included.
func (r *Repository) Statuses(ctx context.Context) (Statuses, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return Statuses{}, fmt.Errorf("opening worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return Statuses{}, fmt.Errorf("scanning worktree: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Statuses{}, err
	}
	return tally(st), nil
}

func tally(st gogit.Status) Statuses {
	var s Statuses
	for _, fs := range st {
		s.add(fs)
	}
	return s
}

func (s *Statuses) add(fs *gogit.FileStatus) {
	switch fs.Staging {
	case gogit.Added, gogit.Modified, gogit.Deleted, gogit.Renamed, gogit.Copied:
		s.Staged.inc()
	}
	switch fs.Worktree {
	case gogit.Modified, gogit.Deleted:
		s.NotStaged.inc()
	case gogit.Untracked:
		s.Untracked.inc()
	}
	if fs.Staging == gogit.UpdatedButUnmerged || fs.Worktree == gogit.UpdatedButUnmerged {
		s.Conflicted.inc()
	}
}
