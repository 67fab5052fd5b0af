package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/ejfitzgerald/accoutrements/internal/config"
	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"github.com/ejfitzgerald/accoutrements/internal/ui"
	"github.com/ejfitzgerald/accoutrements/internal/usecase"
	"go.uber.org/zap"
)

// ReleaseConfig contains the options of one release run.
type ReleaseConfig struct {
	// Tag is a version mode or a literal tag name.
	Tag           string
	NoPush        bool
	DryRun        bool
	Fetch         bool
	Yes           bool
	Force         bool
	GithubRelease bool
	// Rollback undoes the session named by SessionID (latest when empty)
	// instead of releasing.
	Rollback  bool
	SessionID string
}

// ReleaseOrchestrator tags and publishes the next version.
type ReleaseOrchestrator struct {
	gitRepo    repository.GitRepository
	githubRepo repository.GithubRepository
	stateRepo  repository.StateRepository
	cfg        *config.Config
	printer    *ui.Printer
	confirmer  ui.Confirmer
	logger     *zap.Logger
}

// NewReleaseOrchestrator creates a release orchestrator.
func NewReleaseOrchestrator(
	gitRepo repository.GitRepository,
	githubRepo repository.GithubRepository,
	stateRepo repository.StateRepository,
	cfg *config.Config,
	printer *ui.Printer,
	confirmer ui.Confirmer,
	logger *zap.Logger,
) *ReleaseOrchestrator {
	return &ReleaseOrchestrator{
		gitRepo:    gitRepo,
		githubRepo: githubRepo,
		stateRepo:  stateRepo,
		cfg:        cfg,
		printer:    printer,
		confirmer:  confirmer,
		logger:     logger,
	}
}

// Execute runs the release workflow.
func (o *ReleaseOrchestrator) Execute(ctx context.Context, cfg ReleaseConfig) error {
	if cfg.Rollback {
		return o.Rollback(ctx, cfg.SessionID)
	}
	if cfg.Tag == "" {
		cfg.Tag = o.cfg.DefaultMode
	}
	release, err := o.plan(ctx, cfg)
	if err != nil || release == nil {
		return err
	}
	o.printSummary(release, cfg)
	if !cfg.Yes {
		if err := o.confirmer.Confirm("Press enter to continue"); err != nil {
			return err
		}
		o.printer.Blank()
	}
	if cfg.DryRun {
		o.printer.Println("DRY-RUN: Tag Version: " + release.Tag)
		if !cfg.NoPush {
			o.printer.Println("DRY-RUN: Push Tag Version: " + release.Tag)
			if cfg.GithubRelease {
				o.printer.Println("DRY-RUN: GitHub Release: " + release.Tag)
			}
		}
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, ReleaseWorkflowTimeout)
	defer cancel()
	saga := NewSagaExecutor(o.stateRepo, true, o.logger)
	saga.SetRelease(release)
	o.addSteps(saga, release, cfg)
	if err := saga.Execute(ctx); err != nil {
		return fmt.Errorf("release %s failed (session %s): %w", release.Tag, saga.SessionID(), err)
	}
	o.printer.Successln(fmt.Sprintf("Released %s", release.Tag))
	return nil
}

// plan resolves the tag to create. A nil release means the requested mode
// has no successor and nothing should happen.
func (o *ReleaseOrchestrator) plan(ctx context.Context, cfg ReleaseConfig) (*domain.Release, error) {
	upstream := &usecase.DetectUpstreamUseCase{GitRepo: o.gitRepo, Preferred: o.cfg.Remotes}
	remote, err := upstream.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Fetch {
		if err := o.gitRepo.Fetch(ctx, remote, true); err != nil {
			return nil, err
		}
	}
	calc := &usecase.CalculateVersionUseCase{GitRepo: o.gitRepo, InitialVersion: o.cfg.InitialVersion}
	versions, err := calc.Execute(ctx, cfg.Tag)
	if err != nil {
		return nil, err
	}
	if !versions.Transition {
		o.printer.Warnln(fmt.Sprintf("%s has no %s successor, nothing to tag", versions.Current, cfg.Tag))
		return nil, nil
	}
	if err := domain.ValidateTagName(versions.Next); err != nil {
		return nil, err
	}
	next := toSemver(versions.Next)
	if err := o.checkMonotonic(versions.Current, next, cfg.Force); err != nil {
		return nil, err
	}
	exists, err := o.gitRepo.TagExists(ctx, versions.Next)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrTagExists, versions.Next)
	}
	return &domain.Release{
		Current:    versions.Current,
		Tag:        versions.Next,
		Remote:     remote,
		Signed:     o.gitRepo.HasSigningKey(ctx),
		PreRelease: next != nil && next.Prerelease() != "",
	}, nil
}

// checkMonotonic refuses a tag that does not sort after the current version.
// Tags outside the version grammar are not compared.
func (o *ReleaseOrchestrator) checkMonotonic(current string, next *semver.Version, force bool) error {
	prev := toSemver(current)
	if prev == nil || next == nil {
		o.logger.Debug("skipping version ordering check", zap.String("current", current))
		return nil
	}
	if next.GreaterThan(prev) {
		return nil
	}
	if force {
		o.printer.Warnln(fmt.Sprintf("%s does not follow %s, continuing because of --force", next.Original(), prev))
		return nil
	}
	return fmt.Errorf("%w: %s is not after %s (use --force to tag anyway)", ErrNotMonotonic, next.Original(), current)
}

// toSemver maps a tag onto semver, preferring the version grammar so
// pre-release counters compare numerically.
func toSemver(tag string) *semver.Version {
	if v, err := domain.ParseVersion(tag); err == nil {
		return v.Semver()
	}
	sv, err := semver.NewVersion(tag)
	if err != nil {
		return nil
	}
	return sv
}

func (o *ReleaseOrchestrator) printSummary(release *domain.Release, cfg ReleaseConfig) {
	o.printer.Field("Current Version", release.Current)
	o.printer.Field("Next Version", ui.Version(release.Tag))
	o.printer.Field("Upstream remote", ui.Remote(release.Remote))
	kind := "annotated"
	if release.Signed {
		kind = "signed"
	}
	o.printer.Field("Tag Type", kind)
	if cfg.DryRun {
		o.printer.Field("Dry Run", "Yes")
	}
	if cfg.NoPush {
		o.printer.Field("No Push", "Yes")
	}
	if cfg.GithubRelease && !cfg.NoPush {
		o.printer.Field("GitHub Release", "Yes")
	}
	o.printer.Blank()
}

func (o *ReleaseOrchestrator) addSteps(saga *SagaExecutor, release *domain.Release, cfg ReleaseConfig) {
	compensator := NewCompensatingActions(o.gitRepo, o.githubRepo, o.logger)
	saga.AddStep(SagaStep{
		Name: "Create Tag",
		Type: domain.OperationTypeCreateTag,
		Execute: func(ctx context.Context) (map[string]any, error) {
			if err := o.gitRepo.CreateTag(ctx, release.Tag, release.Tag, release.Signed); err != nil {
				return nil, err
			}
			return map[string]any{"tag": release.Tag}, nil
		},
		Compensate: compensator.DeleteTag,
	})
	if cfg.NoPush {
		return
	}
	saga.AddStep(SagaStep{
		Name:  "Push Tag",
		Type:  domain.OperationTypePushTag,
		Retry: true,
		Execute: func(ctx context.Context) (map[string]any, error) {
			if err := o.gitRepo.PushTag(ctx, release.Remote, release.Tag); err != nil {
				return nil, err
			}
			return map[string]any{"tag": release.Tag, "remote": release.Remote}, nil
		},
		Compensate: compensator.DeleteRemoteTag,
	})
	if !cfg.GithubRelease {
		return
	}
	saga.AddStep(SagaStep{
		Name:  "Create GitHub Release",
		Type:  domain.OperationTypeGithubRelease,
		Retry: true,
		Execute: func(ctx context.Context) (map[string]any, error) {
			id, err := o.githubRepo.CreateRelease(ctx, release.Tag, release.PreRelease)
			if err != nil {
				return nil, err
			}
			return map[string]any{"release_id": id}, nil
		},
		Compensate: compensator.DeleteRelease,
	})
}

// Rollback undoes a stored release session, the latest one when sessionID
// is empty.
func (o *ReleaseOrchestrator) Rollback(ctx context.Context, sessionID string) error {
	saga, err := LoadExistingSaga(ctx, o.stateRepo, sessionID, o.logger)
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			o.printer.Println("No release session to roll back")
			return nil
		}
		return err
	}
	state := saga.State()
	if state.Status == domain.WorkflowStatusRolledBack {
		o.printer.Println(fmt.Sprintf("Session %s is already rolled back", state.SessionID))
		return nil
	}
	o.printer.Field("Session", state.SessionID)
	o.printer.Field("Tag", ui.Version(state.Tag))
	o.printer.Field("Upstream remote", ui.Remote(state.Remote))
	if last := state.GetLastOperation(); last != nil {
		o.printer.Field("Last step", fmt.Sprintf("%s (%s)", last.Type, last.Status))
	}
	o.printer.Blank()
	if err := o.confirmer.Confirm("Press enter to roll back"); err != nil {
		return err
	}
	release := &domain.Release{Tag: state.Tag, Remote: state.Remote}
	o.addSteps(saga, release, ReleaseConfig{GithubRelease: true})
	ctx, cancel := context.WithTimeout(ctx, RollbackTimeout)
	defer cancel()
	if err := saga.Rollback(ctx); err != nil {
		return err
	}
	o.printer.Successln(fmt.Sprintf("Rolled back %s", state.Tag))
	return nil
}
