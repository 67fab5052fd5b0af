package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ejfitzgerald/accoutrements/internal/repository"
)

// DeletePlan groups branch references by where they live.
type DeletePlan struct {
	Local  []string
	Remote map[string][]string
}

// Remotes returns the remotes with branches to delete, sorted.
func (p *DeletePlan) Remotes() []string {
	remotes := make([]string, 0, len(p.Remote))
	for r := range p.Remote {
		remotes = append(remotes, r)
	}
	sort.Strings(remotes)
	return remotes
}

// Empty reports whether the plan deletes nothing.
func (p *DeletePlan) Empty() bool {
	return len(p.Local) == 0 && len(p.Remote) == 0
}

// SplitRef resolves a user supplied reference. "remotes/<r>/x" and "<r>/x"
// name branch x on remote r when r is configured; anything else is a local
// branch.
func SplitRef(remotes []string, ref string) (remote, branch string) {
	tokens := strings.Split(ref, "/")
	switch {
	case len(tokens) > 2 && tokens[0] == "remotes" && slices.Contains(remotes, tokens[1]):
		return tokens[1], strings.Join(tokens[2:], "/")
	case len(tokens) > 1 && slices.Contains(remotes, tokens[0]):
		return tokens[0], strings.Join(tokens[1:], "/")
	default:
		return "", ref
	}
}

// DeleteBranchesUseCase deletes local and remote branches in bulk.
type DeleteBranchesUseCase struct {
	GitRepo repository.GitRepository
	Filter  *BranchFilter
}

// Plan dedupes and sorts refs. Protected branches fail the whole plan.
func (uc *DeleteBranchesUseCase) Plan(ctx context.Context, refs []string) (*DeletePlan, error) {
	remotes, err := uc.GitRepo.Remotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	plan := &DeletePlan{Remote: map[string][]string{}}
	for _, ref := range refs {
		remote, branch := SplitRef(remotes, ref)
		if uc.Filter.Protected(branch) {
			return nil, fmt.Errorf("%w: %s", ErrProtectedBranch, ref)
		}
		if remote == "" {
			plan.Local = append(plan.Local, branch)
			continue
		}
		plan.Remote[remote] = append(plan.Remote[remote], branch)
	}
	plan.Local = sortedUnique(plan.Local)
	for r, branches := range plan.Remote {
		plan.Remote[r] = sortedUnique(branches)
	}
	return plan, nil
}

// Apply deletes local branches first, then each remote's branches in a
// single push.
func (uc *DeleteBranchesUseCase) Apply(ctx context.Context, plan *DeletePlan) error {
	for _, branch := range plan.Local {
		if err := uc.GitRepo.DeleteBranch(ctx, branch); err != nil {
			return err
		}
	}
	for _, remote := range plan.Remotes() {
		if err := uc.GitRepo.DeleteRemoteBranches(ctx, remote, plan.Remote[remote]...); err != nil {
			return err
		}
	}
	return nil
}

func sortedUnique(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := slices.Clone(items)
	slices.Sort(out)
	return slices.Compact(out)
}
