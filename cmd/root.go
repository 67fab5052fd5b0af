package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ejfitzgerald/accoutrements/pkg/version"
	"github.com/spf13/cobra"
)

// linkPrefix is the name prefix git uses to find external subcommands.
const linkPrefix = "git-"

var rootCmd = &cobra.Command{
	Use:   "accoutrements",
	Short: "Git helpers for tagging releases and managing branches",
	Long: `accoutrements bundles small git workflows: tagging the next version,
starting and tidying development branches and cloning with a preset identity.

Link the binary as git-<command> (for example git-rel) to run a command as
"git rel".`,
	Version:       version.Summary(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if name, ok := linkedCommand(os.Args[0]); ok {
		rootCmd.SetArgs(append([]string{name}, os.Args[1:]...))
	}
	return rootCmd.Execute()
}

// linkedCommand maps an argv[0] such as /usr/local/bin/git-rel onto the
// subcommand it names.
func linkedCommand(arg0 string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(arg0), ".exe")
	if !strings.HasPrefix(base, linkPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(base, linkPrefix)
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return name, true
		}
	}
	return "", false
}
