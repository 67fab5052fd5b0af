package cmd

import (
	"fmt"

	"github.com/ejfitzgerald/accoutrements/internal/config"
	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/spf13/cobra"
)

// newNextCmd exposes the version engine on its own. Nothing is printed to
// stdout when the mode has no successor.
func newNextCmd(c *container) *cobra.Command {
	return &cobra.Command{
		Use:   "next <version> [mode]",
		Short: "Print the version that follows <version>",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := config.DefaultConfig().DefaultMode
			if len(args) == 2 {
				mode = args[1]
			} else if err := c.init(); err == nil {
				mode = c.cfg.DefaultMode
			}
			next, ok, err := domain.NextVersion(args[0], mode)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s has no %s successor\n", args[0], mode)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
}
