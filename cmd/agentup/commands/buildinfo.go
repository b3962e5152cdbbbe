package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/agentup/internal/build"
)

func (c *CLI) newBuildInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-info",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmdo := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(cmdo, "agentup version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
		},
	}
}
