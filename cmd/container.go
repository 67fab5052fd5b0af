package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ejfitzgerald/accoutrements/internal/config"
	"github.com/ejfitzgerald/accoutrements/internal/orchestrator"
	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"github.com/ejfitzgerald/accoutrements/internal/ui"
	"github.com/ejfitzgerald/accoutrements/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application. Everything is
// built on first use so commands such as `next` and `ditto <url>` work
// outside a repository.
type container struct {
	dir     string
	verbose bool

	logger  *zap.Logger
	cfg     *config.Config
	fsRepo  repository.FileSystemRepository
	runner  *repository.ExecRunner
	gitRepo repository.GitRepository
}

func (c *container) init() error {
	if c.logger != nil {
		return nil
	}
	logger, err := newLogger(c.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	dir, err := filepath.Abs(c.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", c.dir, err)
	}
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return err
	}
	runner, err := repository.NewExecRunner(cfg.GitPath, dir, logger)
	if err != nil {
		return err
	}
	c.dir = dir
	c.logger = logger
	c.cfg = cfg
	c.fsRepo = repository.NewOsFileSystem()
	c.runner = runner
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zcfg.DisableStacktrace = !verbose
	return zcfg.Build()
}

func (c *container) git() (repository.GitRepository, error) {
	if c.gitRepo != nil {
		return c.gitRepo, nil
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	gitRepo, err := repository.NewGitRepository(c.runner, c.dir, c.logger)
	if err != nil {
		return nil, err
	}
	c.gitRepo = gitRepo
	return gitRepo, nil
}

// github returns a GitHub client for the upstream repository, or a no-op
// implementation when no token is configured.
func (c *container) github(ctx context.Context, gitRepo repository.GitRepository) (repository.GithubRepository, error) {
	owner, repo := c.cfg.GithubOwner, c.cfg.GithubRepo
	if owner == "" || repo == "" {
		upstream := &usecase.DetectUpstreamUseCase{GitRepo: gitRepo, Preferred: c.cfg.Remotes}
		if remote, err := upstream.Execute(ctx); err == nil {
			if url, err := gitRepo.RemoteURL(ctx, remote); err == nil {
				owner, repo, _ = repository.ParseGithubRemote(url)
			}
		}
	}
	if c.cfg.GithubToken == "" {
		return repository.NewGithubNoopRepository(owner, repo), nil
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("unable to determine the GitHub repository, set github_owner and github_repo")
	}
	return repository.NewGithubRepository(c.cfg.GithubToken, owner, repo, c.logger)
}

func (c *container) printer(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}

func (c *container) confirmer(cmd *cobra.Command, yes bool) ui.Confirmer {
	if yes {
		return ui.AutoConfirmer{}
	}
	return ui.NewPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
}

func (c *container) releaseOrchestrator(cmd *cobra.Command, yes bool) (*orchestrator.ReleaseOrchestrator, error) {
	gitRepo, err := c.git()
	if err != nil {
		return nil, err
	}
	githubRepo, err := c.github(cmd.Context(), gitRepo)
	if err != nil {
		return nil, err
	}
	stateRepo := repository.NewJSONStateRepository(c.fsRepo, filepath.Join(c.dir, c.cfg.StateDir), c.logger)
	return orchestrator.NewReleaseOrchestrator(
		gitRepo,
		githubRepo,
		stateRepo,
		c.cfg,
		c.printer(cmd),
		c.confirmer(cmd, yes),
		c.logger,
	), nil
}

func (c *container) branchOrchestrator(cmd *cobra.Command, yes bool) (*orchestrator.BranchOrchestrator, error) {
	gitRepo, err := c.git()
	if err != nil {
		return nil, err
	}
	return orchestrator.NewBranchOrchestrator(gitRepo, c.cfg, c.printer(cmd), c.confirmer(cmd, yes), c.logger), nil
}

func (c *container) dittoOrchestrator(cmd *cobra.Command) (*orchestrator.DittoOrchestrator, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return orchestrator.NewDittoOrchestrator(c.runner, c.fsRepo, c.dir, c.git, c.printer(cmd), c.logger), nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c := &container{}
	rootCmd.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "Log git commands and diagnostics")
	rootCmd.PersistentFlags().StringVarP(&c.dir, "dir", "C", ".", "Run as if started in this directory")
	rootCmd.AddCommand(
		newRelCmd(c),
		newNextCmd(c),
		newMasterCmd(c),
		newTidyCmd(c),
		newDelCmd(c),
		newDittoCmd(c),
		newVersionCmd(),
	)
	for _, prefix := range branchPrefixes {
		rootCmd.AddCommand(newBranchCmd(c, prefix))
	}
	return nil
}
