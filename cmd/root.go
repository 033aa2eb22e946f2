/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package cmd implements the precache command line.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/precache/internal/ops"
	"github.com/fulmenhq/precache/pkg/buildinfo"
	"github.com/fulmenhq/precache/pkg/exitcode"
	"github.com/fulmenhq/precache/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precache",
		Short: "Build service worker precache manifests",
		Long: `Precache scans a build directory for static assets, fingerprints them and
writes the manifest a service worker uses to precache them.

Examples:
   precache generate                     # Build the manifest described by precache.yaml
   precache generate --dir dist --dest dist/precache-manifest.js --format js
   precache list                         # Show what would be precached
   precache validate                     # Check the configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default: precache.{yaml,yml,toml,json} in . or the user config dir)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("precache {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command and groups
// them on the help screen.
func registerSubcommands(cmd *cobra.Command) {
	reg := ops.NewRegistry()
	for _, c := range []struct {
		group ops.CommandGroup
		cmd   *cobra.Command
	}{
		{ops.GroupBuild, newGenerateCommand()},
		{ops.GroupBuild, newListCommand()},
		{ops.GroupSupport, newValidateCommand()},
		{ops.GroupSupport, newVersionCommand()},
	} {
		cmd.AddCommand(c.cmd)
		if err := reg.Register(c.cmd.Name(), c.group, c.cmd, c.cmd.Short); err != nil {
			panic(err)
		}
	}

	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c != cmd {
			c.Println(c.Long)
			c.Println()
			c.Print(c.UsageString())
			return
		}
		c.Println(c.Long)
		for _, group := range ops.Groups {
			c.Println()
			c.Println(group.Title() + ":")
			for _, r := range reg.GetCommandsByGroup(group) {
				c.Printf("  %-12s %s\n", r.Name, r.Description)
			}
		}
		c.Println()
		c.Println("Flags:")
		c.Print(c.LocalFlags().FlagUsages())
	})
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := exitcode.FromError(err)
		logger.Error("Command execution failed", logger.Err(err), logger.String("exit", exitcode.String(code)))
		stop()
		os.Exit(code)
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor && isTerminal(os.Stderr),
		JSON:      jsonLogs && cmd.Name() != "version",
		Component: "precache",
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
	logger.SetOutput(cmd.ErrOrStderr())
}
