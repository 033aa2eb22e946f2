/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fulmenhq/precache/pkg/output"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the entries that would be precached",
		Long: `Build the manifest without writing it and print a table of URL, revision,
size and kind for each entry, followed by totals.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	addBuildFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	res, err := buildManifest(cmd, cfg)
	if err != nil {
		return err
	}

	return output.Render(cmd.OutOrStdout(), output.FormatTable, res)
}
