package cmd

import (
	"strings"

	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/ejfitzgerald/accoutrements/internal/orchestrator"
	"github.com/spf13/cobra"
)

func modeNames() string {
	names := make([]string, len(domain.Modes))
	for i, m := range domain.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func newRelCmd(c *container) *cobra.Command {
	var cfg orchestrator.ReleaseConfig
	cmd := &cobra.Command{
		Use:   "rel [tag|mode]",
		Short: "Tag and push the next release",
		Long: `Tag HEAD with the next version and push the tag upstream.

The argument is either a version mode (` + modeNames() + `)
or a literal tag. Without one the configured default_mode is used. A mode
with no successor for the current version (for example release on a
non-rc version) leaves the repository untouched.

Every release is recorded as a session under state_dir. When a step fails
the completed steps are undone; --rollback undoes a finished session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Tag = args[0]
			}
			orch, err := c.releaseOrchestrator(cmd, cfg.Yes)
			if err != nil {
				return err
			}
			return orch.Execute(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVarP(&cfg.NoPush, "no-push", "n", false, "Create the tag without pushing it")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Show what would be tagged without changing anything")
	cmd.Flags().BoolVarP(&cfg.Fetch, "fetch", "f", false, "Fetch the upstream remote first")
	cmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&cfg.Force, "force", false, "Allow a literal tag that does not sort after the current version")
	cmd.Flags().BoolVar(&cfg.GithubRelease, "github-release", false, "Publish a GitHub release for the tag")
	cmd.Flags().BoolVar(&cfg.Rollback, "rollback", false, "Undo a recorded release session")
	cmd.Flags().
		StringVar(&cfg.SessionID, "session-id", "", "Session ID to rollback (uses latest if not specified)")
	return cmd
}
