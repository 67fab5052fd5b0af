package usecase

import (
	"context"
	"fmt"

	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/ejfitzgerald/accoutrements/internal/repository"
)

// VersionPlan is the outcome of CalculateVersionUseCase. Transition is false
// when the requested mode has no successor for the current version.
type VersionPlan struct {
	Current    string
	Next       string
	Transition bool
}

// CalculateVersionUseCase works out the tag the release command should create.
type CalculateVersionUseCase struct {
	GitRepo        repository.GitRepository
	InitialVersion string
}

// Execute resolves tagOrMode against the current version. A mode is run
// through the version engine. Anything else is taken as a literal tag.
func (uc *CalculateVersionUseCase) Execute(ctx context.Context, tagOrMode string) (*VersionPlan, error) {
	current, err := uc.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	if !domain.IsMode(tagOrMode) {
		return &VersionPlan{Current: current, Next: tagOrMode, Transition: true}, nil
	}
	next, ok, err := domain.NextVersion(current, tagOrMode)
	if err != nil {
		return nil, err
	}
	return &VersionPlan{Current: current, Next: next, Transition: ok}, nil
}

// CurrentVersion returns `git describe` output, or the configured initial
// version when the repository has no tags yet.
func (uc *CalculateVersionUseCase) CurrentVersion(ctx context.Context) (string, error) {
	hasTags, err := uc.GitRepo.HasTags(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to check for tags: %w", err)
	}
	if !hasTags {
		initial := uc.InitialVersion
		if initial == "" {
			initial = "v0.0.0"
		}
		return initial, nil
	}
	current, err := uc.GitRepo.Describe(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current version: %w", err)
	}
	return current, nil
}
