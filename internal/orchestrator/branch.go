package orchestrator

import (
	"context"
	"fmt"

	"github.com/ejfitzgerald/accoutrements/internal/config"
	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"github.com/ejfitzgerald/accoutrements/internal/ui"
	"github.com/ejfitzgerald/accoutrements/internal/usecase"
	"go.uber.org/zap"
)

// CreateBranchConfig contains the options of feature/fix/chore/bugfix.
type CreateBranchConfig struct {
	Prefix string
	Names  []string
	Push   bool
}

// TidyConfig contains the options of tidy.
type TidyConfig struct {
	Fetch  bool
	DryRun bool
	Yes    bool
}

// DeleteConfig contains the options of del.
type DeleteConfig struct {
	Refs   []string
	DryRun bool
	Yes    bool
}

// BranchOrchestrator runs the branch management commands.
type BranchOrchestrator struct {
	gitRepo   repository.GitRepository
	cfg       *config.Config
	printer   *ui.Printer
	confirmer ui.Confirmer
	logger    *zap.Logger
}

// NewBranchOrchestrator creates a branch orchestrator.
func NewBranchOrchestrator(
	gitRepo repository.GitRepository,
	cfg *config.Config,
	printer *ui.Printer,
	confirmer ui.Confirmer,
	logger *zap.Logger,
) *BranchOrchestrator {
	return &BranchOrchestrator{
		gitRepo:   gitRepo,
		cfg:       cfg,
		printer:   printer,
		confirmer: confirmer,
		logger:    logger,
	}
}

func (o *BranchOrchestrator) upstream() *usecase.DetectUpstreamUseCase {
	return &usecase.DetectUpstreamUseCase{GitRepo: o.gitRepo, Preferred: o.cfg.Remotes}
}

func (o *BranchOrchestrator) trunk() *usecase.DetectTrunkUseCase {
	return &usecase.DetectTrunkUseCase{
		GitRepo:       o.gitRepo,
		TrunkBranches: o.cfg.TrunkBranches,
		DevelopBranch: o.cfg.DevelopBranch,
	}
}

func (o *BranchOrchestrator) filter() (*usecase.BranchFilter, error) {
	return usecase.NewBranchFilter(o.cfg.ProtectedBranches)
}

// CreateBranch starts a development branch from the upstream develop or
// trunk branch.
func (o *BranchOrchestrator) CreateBranch(ctx context.Context, cfg CreateBranchConfig) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	uc := &usecase.CreateDevelopmentBranchUseCase{
		GitRepo:    o.gitRepo,
		Upstream:   o.upstream(),
		Trunk:      o.trunk(),
		PushRemote: o.cfg.PushRemote,
		Logger:     o.logger,
	}
	branch, err := uc.Execute(ctx, cfg.Prefix, cfg.Names, cfg.Push)
	if err != nil {
		return err
	}
	o.printer.Field("Upstream remote", ui.Remote(branch.Remote))
	o.printer.Field("Branch", branch.Name)
	o.printer.Field("Based on", branch.StartPoint)
	if branch.PushedTo != "" {
		o.printer.Field("Pushed to", ui.Remote(branch.PushedTo))
	}
	return nil
}

// CheckoutTrunk moves to the upstream trunk branch.
func (o *BranchOrchestrator) CheckoutTrunk(ctx context.Context, fetch bool) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	uc := &usecase.CheckoutTrunkUseCase{GitRepo: o.gitRepo, Upstream: o.upstream(), Trunk: o.trunk()}
	startPoint, err := uc.Execute(ctx, fetch)
	if err != nil {
		return err
	}
	o.printer.Field("Checked out", startPoint)
	return nil
}

// Tidy deletes local branches whose upstream branch is gone.
func (o *BranchOrchestrator) Tidy(ctx context.Context, cfg TidyConfig) error {
	filter, err := o.filter()
	if err != nil {
		return err
	}
	uc := &usecase.TidyBranchesUseCase{
		GitRepo:  o.gitRepo,
		Upstream: o.upstream(),
		Trunk:    o.trunk(),
		Filter:   filter,
	}
	plan, err := uc.Plan(ctx, cfg.Fetch)
	if err != nil {
		return err
	}
	o.printer.Field("Upstream remote", ui.Remote(plan.Remote))
	if len(plan.Protected) > 0 {
		o.printer.Warnln("Keeping protected branches:")
		o.printer.List(plan.Protected)
	}
	if len(plan.Delete) == 0 {
		o.printer.Println("No stale branches")
		return nil
	}
	o.printer.Println("The following branches will be removed:")
	o.printer.List(plan.Delete)
	o.printer.Blank()
	if plan.SwitchesBranch() {
		o.printer.Printf("Since you are currently on `%s` you will be checked out to %s/%s\n\n",
			plan.Current, plan.Remote, plan.Trunk)
	}
	if cfg.DryRun {
		return nil
	}
	if !cfg.Yes {
		if err := o.confirmer.Confirm("Press enter to continue"); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	if err := uc.Apply(ctx, plan); err != nil {
		return err
	}
	o.printer.Successln(fmt.Sprintf("Removed %d branches", len(plan.Delete)))
	return nil
}

// Delete removes local and remote branches.
func (o *BranchOrchestrator) Delete(ctx context.Context, cfg DeleteConfig) error {
	filter, err := o.filter()
	if err != nil {
		return err
	}
	uc := &usecase.DeleteBranchesUseCase{GitRepo: o.gitRepo, Filter: filter}
	plan, err := uc.Plan(ctx, cfg.Refs)
	if err != nil {
		return err
	}
	if len(plan.Local) > 0 {
		o.printer.Println(fmt.Sprintf("The following %s branches will be deleted:", ui.Remote("local")))
		o.printer.List(plan.Local)
		o.printer.Blank()
	}
	for _, remote := range plan.Remotes() {
		o.printer.Println(fmt.Sprintf("The following branches will be deleted from %s:", ui.Remote(remote)))
		o.printer.List(plan.Remote[remote])
		o.printer.Blank()
	}
	if cfg.DryRun || plan.Empty() {
		return nil
	}
	if !cfg.Yes {
		if err := o.confirmer.Confirm("Press enter to continue"); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	return uc.Apply(ctx, plan)
}
