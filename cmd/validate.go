/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/precache/pkg/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file",
		Long: `Load the configuration with environment overrides applied and report any
schema violations. With --print-schema the embedded JSON schema is printed instead.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
	cmd.Flags().Bool("print-schema", false, "Print the configuration JSON schema and exit")
	cmd.Flags().Bool("show", false, "Print the effective configuration as JSON")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if printSchema, _ := cmd.Flags().GetBool("print-schema"); printSchema {
		_, err := out.Write(config.Schema())
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
		}
		return err
	}

	if show, _ := cmd.Flags().GetBool("show"); show {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	source := cfg.Path
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(out, "Configuration valid (%s)\n", source)
	return nil
}
