package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ejfitzgerald/accoutrements/internal/repository"
)

// DetectUpstreamUseCase picks the remote that releases and new branches are
// based on: the first of Preferred that is configured.
type DetectUpstreamUseCase struct {
	GitRepo   repository.GitRepository
	Preferred []string
}

// Execute returns the upstream remote name.
func (uc *DetectUpstreamUseCase) Execute(ctx context.Context) (string, error) {
	remotes, err := uc.GitRepo.Remotes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}
	for _, candidate := range uc.Preferred {
		if slices.Contains(remotes, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: have [%s], want one of [%s]",
		ErrNoUpstreamRemote, strings.Join(remotes, ","), strings.Join(uc.Preferred, ","))
}

// DetectTrunkUseCase finds the trunk and optional develop branch of a remote.
type DetectTrunkUseCase struct {
	GitRepo       repository.GitRepository
	TrunkBranches []string
	DevelopBranch string
}

// Execute returns the first trunk candidate present on remote.
func (uc *DetectTrunkUseCase) Execute(ctx context.Context, remote string) (string, error) {
	branches, err := uc.GitRepo.RemoteBranches(ctx, remote)
	if err != nil {
		return "", fmt.Errorf("failed to list branches of %s: %w", remote, err)
	}
	return uc.trunk(remote, branches)
}

// StartPoint returns the branch new work should start from: develop when the
// remote has one, the trunk otherwise.
func (uc *DetectTrunkUseCase) StartPoint(ctx context.Context, remote string) (string, error) {
	branches, err := uc.GitRepo.RemoteBranches(ctx, remote)
	if err != nil {
		return "", fmt.Errorf("failed to list branches of %s: %w", remote, err)
	}
	if uc.DevelopBranch != "" && slices.Contains(branches, uc.DevelopBranch) {
		return uc.DevelopBranch, nil
	}
	return uc.trunk(remote, branches)
}

func (uc *DetectTrunkUseCase) trunk(remote string, branches []string) (string, error) {
	for _, candidate := range uc.TrunkBranches {
		if slices.Contains(branches, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w on %s: %s", ErrNoTrunkBranch, remote, strings.Join(branches, ","))
}
