package orchestrator

import (
	"context"

	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"github.com/ejfitzgerald/accoutrements/internal/ui"
	"github.com/ejfitzgerald/accoutrements/internal/usecase"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DittoOrchestrator clones repositories and applies the local identity
// profile to them.
type DittoOrchestrator struct {
	runner  repository.Runner
	fs      afero.Fs
	dir     string
	printer *ui.Printer
	logger  *zap.Logger
	// openRepo opens the repository in dir for `ditto update`.
	openRepo func() (repository.GitRepository, error)
}

// NewDittoOrchestrator creates a ditto orchestrator working in dir.
func NewDittoOrchestrator(
	runner repository.Runner,
	fs afero.Fs,
	dir string,
	openRepo func() (repository.GitRepository, error),
	printer *ui.Printer,
	logger *zap.Logger,
) *DittoOrchestrator {
	return &DittoOrchestrator{
		runner:   runner,
		fs:       fs,
		dir:      dir,
		openRepo: openRepo,
		printer:  printer,
		logger:   logger,
	}
}

// Clone clones url next to the working directory and configures it.
func (o *DittoOrchestrator) Clone(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	uc := &usecase.DittoUseCase{Runner: o.runner, Fs: o.fs, Dir: o.dir}
	result, err := uc.Clone(ctx, url)
	if result != nil {
		o.report(result)
	}
	return err
}

// Update applies the identity profile to the current repository.
func (o *DittoOrchestrator) Update(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	gitRepo, err := o.openRepo()
	if err != nil {
		return err
	}
	uc := &usecase.DittoUseCase{Runner: o.runner, Fs: o.fs, Dir: o.dir}
	result, err := uc.Update(ctx, gitRepo)
	if result != nil {
		o.report(result)
	}
	return err
}

func (o *DittoOrchestrator) report(result *usecase.DittoResult) {
	o.printer.Field("Repository", result.Destination)
	if result.IdentityFile == "" {
		o.printer.Field("Identity", "none found")
		o.logger.Debug("no identity file", zap.String("dir", o.dir))
		return
	}
	o.printer.Field("Identity", result.IdentityFile)
	if len(result.Applied) == 0 {
		return
	}
	o.printer.Blank()
	o.printer.Println("Configuration updates")
	o.printer.Blank()
	for _, s := range result.Applied {
		o.printer.Field(s.Key, s.Value)
	}
}
