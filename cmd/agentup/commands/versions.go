package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/agentup/internal/ui/style"
)

type versionEntry struct {
	Version    string `json:"version"`
	Collection string `json:"collection"`
	Source     string `json:"source"`
}

func (c *CLI) newVersionsCmd() *cobra.Command {
	var (
		collection string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List catalog versions of a collection for this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			versions, err := c.app.Versions(cmd.Context(), collection)
			if err != nil {
				return err
			}

			entries := make([]versionEntry, 0, len(versions))
			for _, v := range versions {
				entries = append(entries, versionEntry{
					Version:    v.String(),
					Collection: v.Collection.String(),
					Source:     v.SourceURI,
				})
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, style.Muted.Render("no versions of "+collection+" for this platform"))
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(out, "%s  %s\n", style.Value.Render(e.Version), style.Muted.Render(e.Source))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection to list (e.g. puppet6)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	_ = cmd.MarkFlagRequired("collection")

	return cmd
}
