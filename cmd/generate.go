/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/precache/pkg/config"
	"github.com/fulmenhq/precache/pkg/logger"
	"github.com/fulmenhq/precache/pkg/output"
	"github.com/fulmenhq/precache/pkg/pathfinder"
	"github.com/fulmenhq/precache/pkg/precache"
	"github.com/fulmenhq/precache/pkg/transform"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the precache manifest",
		Long: `Build the precache manifest and write it to swDest, or to stdout when no
destination is configured. Warnings are logged and do not fail the build.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	addBuildFlags(cmd)
	cmd.Flags().String("dest", "", "Write the manifest here (overrides swDest)")
	cmd.Flags().String("format", "", "Output format: json|js|table (overrides format)")
	return cmd
}

// addBuildFlags registers the flags shared by generate and list.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "Glob directory (overrides globDirectory)")
	cmd.Flags().Int64("max-size", 0, "Skip files larger than this many bytes, 0 for no limit (overrides maximumFileSizeToCacheInBytes)")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	res, err := buildManifest(cmd, cfg)
	if err != nil {
		return err
	}

	if cfg.SwDest == "" {
		return output.Render(cmd.OutOrStdout(), cfg.Format, res)
	}

	if err := output.Write(cfg.SwDest, cfg.Format, res); err != nil {
		return err
	}
	logger.Info("Manifest written",
		logger.String("path", cfg.SwDest),
		logger.Int("count", res.Count),
		logger.String("size", transform.FormatBytes(res.Size)))
	return nil
}

// resolveConfig loads the config file and applies environment and flag overrides.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	flags := map[string]*pflag.Flag{}
	for key, name := range map[string]string{
		config.KeyGlobDirectory:   "dir",
		config.KeySwDest:          "dest",
		config.KeyFormat:          "format",
		config.KeyMaximumFileSize: "max-size",
	} {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags[key] = f
		}
	}

	cfg, err := config.Resolve(config.Sources{ConfigFile: configFile, Flags: flags})
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		logger.Debug("Loaded configuration",
			logger.String("path", cfg.Path),
			logger.Strings("globPatterns", cfg.GlobPatterns))
	}
	return cfg, nil
}

// buildManifest runs discovery, templated URL resolution and the transform
// pipeline for cfg. Warnings are logged.
func buildManifest(cmd *cobra.Command, cfg *config.Config) (*transform.Result, error) {
	ctx := cmd.Context()

	opts, err := cfg.BuildOptions(ctx)
	if err != nil {
		return nil, err
	}

	discovererOpts := append(cfg.DiscovererOptions(), pathfinder.WithFileCallback(func(path string) {
		logger.Trace("Hashed file", logger.String("file", path))
	}))

	var builderOpts []precache.BuilderOption
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	bar := newProgressBar(precache.Steps(opts), noProgress)
	if bar != nil {
		builderOpts = append(builderOpts, precache.WithProgress(func(step string) {
			bar.Describe(step)
			_ = bar.Add(1)
		}))
	}

	res, err := precache.NewBuilder(pathfinder.NewDiscoverer(discovererOpts...), builderOpts...).Build(ctx, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	logger.Debug("Manifest built", logger.Int("count", res.Count), logger.Int64("size", res.Size))
	return res, nil
}

// newProgressBar returns nil unless stderr is a terminal and there is work to show.
func newProgressBar(total int, disabled bool) *progressbar.ProgressBar {
	if disabled || total <= 0 || !isTerminal(os.Stderr) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Precaching"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
