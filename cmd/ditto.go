package cmd

import (
	"github.com/ejfitzgerald/accoutrements/internal/config"
	"github.com/spf13/cobra"
)

func newDittoCmd(c *container) *cobra.Command {
	return &cobra.Command{
		Use:   "ditto <url|update>",
		Short: "Clone a repository and apply the local identity profile",
		Long: `Clone <url> and set user.name, user.email and user.signingkey in the clone
from the nearest ` + config.IdentityFileName + ` found in this directory or a parent.

"ditto update" applies the profile to the current repository instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := c.dittoOrchestrator(cmd)
			if err != nil {
				return err
			}
			if args[0] == "update" {
				return orch.Update(cmd.Context())
			}
			return orch.Clone(cmd.Context(), args[0])
		},
	}
}
