package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/agentup/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	var opts app.InstallOptions

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install or upgrade the agent package",
		Long: `Install or upgrade the agent package to a version of the given collection.

Without --version an installed agent is left untouched and a missing agent is
installed at the latest version of the collection.`,
		Example: `  agentup install --collection puppet6
  agentup install --collection puppet7 --version latest --stop-service
  agentup install --collection puppet6 --version 6.28.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd, c.app.Install(cmd.Context(), opts))
		},
	}

	cmd.Flags().StringVar(&opts.Collection, "collection", "", "Collection to install from (e.g. puppet6, puppet7-nightly)")
	cmd.Flags().StringVar(&opts.Version, "version", "", `Version to install: "latest" or X.Y.Z`)
	cmd.Flags().BoolVar(&opts.StopService, "stop-service", false, "Stop the puppet service after installing")
	cmd.Flags().BoolVar(&opts.AllowMajorSkip, "allow-major-skip", false, "Allow upgrades across more than one major version")
	_ = cmd.MarkFlagRequired("collection")

	return cmd
}
