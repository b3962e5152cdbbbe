package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/agentup/internal/ui/style"
)

type platformInfo struct {
	Key     string `json:"key"`
	Family  string `json:"family"`
	Distro  string `json:"distro"`
	Version string `json:"version"`
	Arch    string `json:"arch"`
	Dialect string `json:"dialect"`
}

func (c *CLI) newPlatformCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Print the detected platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.app.Platform(cmd.Context())
			if err != nil {
				return err
			}

			info := platformInfo{
				Key:     p.Key(),
				Family:  p.Family.String(),
				Distro:  p.Distro,
				Version: p.Version,
				Arch:    p.Arch,
				Dialect: string(p.Dialect),
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, style.Heading.Render(info.Key))
			_, _ = fmt.Fprintln(out, style.Field("family", info.Family))
			_, _ = fmt.Fprintln(out, style.Field("distro", info.Distro))
			if info.Version != "" {
				_, _ = fmt.Fprintln(out, style.Field("version", info.Version))
			}
			_, _ = fmt.Fprintln(out, style.Field("arch", info.Arch))
			_, _ = fmt.Fprintln(out, style.Field("dialect", info.Dialect))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the platform as JSON")

	return cmd
}
