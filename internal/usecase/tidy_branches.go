package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/ejfitzgerald/accoutrements/internal/repository"
)

// TidyPlan lists the local branches whose upstream has been deleted.
type TidyPlan struct {
	Remote    string
	Current   string
	Delete    []string
	Protected []string
	// Trunk is set when the current branch is being deleted and the trunk
	// has to be checked out first.
	Trunk string
}

// SwitchesBranch reports whether applying the plan moves HEAD.
func (p *TidyPlan) SwitchesBranch() bool {
	return p.Trunk != ""
}

// TidyBranchesUseCase removes local branches that track a deleted remote branch.
type TidyBranchesUseCase struct {
	GitRepo  repository.GitRepository
	Upstream *DetectUpstreamUseCase
	Trunk    *DetectTrunkUseCase
	Filter   *BranchFilter
}

// Plan works out what Apply would delete without changing anything but the
// remote-tracking refs (when fetch is set).
func (uc *TidyBranchesUseCase) Plan(ctx context.Context, fetch bool) (*TidyPlan, error) {
	if fetch {
		if err := uc.GitRepo.FetchAll(ctx, true); err != nil {
			return nil, err
		}
	}
	remote, err := uc.Upstream.Execute(ctx)
	if err != nil {
		return nil, err
	}
	stale, err := uc.GitRepo.StaleBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to detect stale branches: %w", err)
	}
	current, err := uc.GitRepo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	plan := &TidyPlan{Remote: remote, Current: current}
	plan.Delete, plan.Protected = uc.Filter.Split(stale)
	if current != "" && slices.Contains(plan.Delete, current) {
		trunk, err := uc.Trunk.Execute(ctx, remote)
		if err != nil {
			return nil, err
		}
		plan.Trunk = trunk
	}
	return plan, nil
}

// Apply executes a plan produced by Plan.
func (uc *TidyBranchesUseCase) Apply(ctx context.Context, plan *TidyPlan) error {
	if plan.SwitchesBranch() {
		if err := uc.GitRepo.CheckoutReset(ctx, plan.Trunk, plan.Remote+"/"+plan.Trunk); err != nil {
			return err
		}
	}
	for _, branch := range plan.Delete {
		if err := uc.GitRepo.DeleteBranch(ctx, branch); err != nil {
			return err
		}
	}
	return nil
}
