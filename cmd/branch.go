package cmd

import (
	"github.com/ejfitzgerald/accoutrements/internal/orchestrator"
	"github.com/spf13/cobra"
)

// branchPrefixes each get a command creating <prefix>/<name>.
var branchPrefixes = []string{"feature", "fix", "chore", "bugfix"}

func newBranchCmd(c *container, prefix string) *cobra.Command {
	cfg := orchestrator.CreateBranchConfig{Prefix: prefix}
	cmd := &cobra.Command{
		Use:   prefix + " <name...>",
		Short: "Start a " + prefix + " branch from the upstream develop or trunk branch",
		Long: `Create ` + prefix + `/<name> from the upstream remote. The words of the name are
joined with dashes. The branch starts at the upstream develop branch when
one exists and at the trunk otherwise. Tracked files must be unmodified.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := c.branchOrchestrator(cmd, true)
			if err != nil {
				return err
			}
			cfg.Names = args
			return orch.CreateBranch(cmd.Context(), cfg)
		},
	}
	if prefix == "feature" {
		cmd.Aliases = []string{"feat"}
	}
	cmd.Flags().BoolVarP(&cfg.Push, "push", "p", false, "Push the new branch and set its upstream")
	return cmd
}

func newMasterCmd(c *container) *cobra.Command {
	var fetch bool
	cmd := &cobra.Command{
		Use:     "master",
		Aliases: []string{"trunk"},
		Short:   "Check out the upstream trunk branch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.branchOrchestrator(cmd, true)
			if err != nil {
				return err
			}
			return orch.CheckoutTrunk(cmd.Context(), fetch)
		},
	}
	cmd.Flags().BoolVarP(&fetch, "fetch", "f", false, "Fetch the upstream remote first")
	return cmd
}

func newTidyCmd(c *container) *cobra.Command {
	var cfg orchestrator.TidyConfig
	cmd := &cobra.Command{
		Use:   "tidy",
		Short: "Delete local branches whose upstream branch is gone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.branchOrchestrator(cmd, cfg.Yes)
			if err != nil {
				return err
			}
			return orch.Tidy(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVarP(&cfg.Fetch, "fetch", "f", false, "Fetch and prune every remote first")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Only list the branches")
	cmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newDelCmd(c *container) *cobra.Command {
	var cfg orchestrator.DeleteConfig
	cmd := &cobra.Command{
		Use:   "del <ref...>",
		Short: "Delete local and remote branches",
		Long: `Delete branches. A reference of the form <remote>/<branch> or
remotes/<remote>/<branch> deletes the branch from that remote; anything else
is a local branch. Protected branches are never deleted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := c.branchOrchestrator(cmd, cfg.Yes)
			if err != nil {
				return err
			}
			cfg.Refs = args
			return orch.Delete(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Do not actually delete the branches")
	cmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
