package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"go.uber.org/zap"
)

// DevelopmentBranch describes a branch created by CreateDevelopmentBranchUseCase.
type DevelopmentBranch struct {
	Name       string
	Remote     string
	StartPoint string
	PushedTo   string
}

// CreateDevelopmentBranchUseCase creates `<prefix>/<name>` on top of the
// upstream develop or trunk branch.
type CreateDevelopmentBranchUseCase struct {
	GitRepo    repository.GitRepository
	Upstream   *DetectUpstreamUseCase
	Trunk      *DetectTrunkUseCase
	PushRemote string
	Logger     *zap.Logger
}

// BranchName joins names with dashes under prefix.
func BranchName(prefix string, names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("a branch name is required")
	}
	name := prefix + "/" + strings.Join(names, "-")
	if err := domain.ValidateBranchName(name); err != nil {
		return "", err
	}
	return name, nil
}

// Execute creates the branch. The working copy must be clean because the new
// branch is hard reset onto the remote start point.
func (uc *CreateDevelopmentBranchUseCase) Execute(
	ctx context.Context,
	prefix string,
	names []string,
	push bool,
) (*DevelopmentBranch, error) {
	name, err := BranchName(prefix, names)
	if err != nil {
		return nil, err
	}
	dirty, err := uc.GitRepo.HasWorkingChanges(ctx)
	if err != nil {
		return nil, err
	}
	if dirty {
		return nil, ErrWorkingCopyDirty
	}
	remote, err := uc.Upstream.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.GitRepo.Fetch(ctx, remote, true); err != nil {
		return nil, err
	}
	base, err := uc.Trunk.StartPoint(ctx, remote)
	if err != nil {
		return nil, err
	}
	startPoint := remote + "/" + base
	nopIfNil(uc.Logger).Debug("creating development branch",
		zap.String("branch", name),
		zap.String("start_point", startPoint))
	if err := uc.GitRepo.CheckoutNewBranch(ctx, name); err != nil {
		return nil, err
	}
	// The reset keeps the new branch free of tracking config for startPoint.
	if err := uc.GitRepo.ResetHard(ctx, startPoint); err != nil {
		return nil, err
	}
	branch := &DevelopmentBranch{Name: name, Remote: remote, StartPoint: startPoint}
	if push {
		pushRemote, err := uc.pushRemote(ctx, remote)
		if err != nil {
			return nil, err
		}
		if err := uc.GitRepo.PushBranch(ctx, pushRemote, name, true); err != nil {
			return nil, err
		}
		branch.PushedTo = pushRemote
	}
	return branch, nil
}

// pushRemote prefers the configured push remote (the user's fork) and falls
// back to upstream when it does not exist.
func (uc *CreateDevelopmentBranchUseCase) pushRemote(ctx context.Context, upstream string) (string, error) {
	if uc.PushRemote == "" {
		return upstream, nil
	}
	remotes, err := uc.GitRepo.Remotes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}
	for _, r := range remotes {
		if r == uc.PushRemote {
			return r, nil
		}
	}
	return upstream, nil
}

// CheckoutTrunkUseCase moves to the upstream trunk, resetting the local
// trunk branch to it.
type CheckoutTrunkUseCase struct {
	GitRepo  repository.GitRepository
	Upstream *DetectUpstreamUseCase
	Trunk    *DetectTrunkUseCase
}

// Execute checks out the trunk and returns "<remote>/<trunk>".
func (uc *CheckoutTrunkUseCase) Execute(ctx context.Context, fetch bool) (string, error) {
	remote, err := uc.Upstream.Execute(ctx)
	if err != nil {
		return "", err
	}
	if fetch {
		if err := uc.GitRepo.Fetch(ctx, remote, true); err != nil {
			return "", err
		}
	}
	trunk, err := uc.Trunk.Execute(ctx, remote)
	if err != nil {
		return "", err
	}
	startPoint := remote + "/" + trunk
	if err := uc.GitRepo.CheckoutReset(ctx, trunk, startPoint); err != nil {
		return "", err
	}
	return startPoint, nil
}
