package main

import (
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bitscycles/blog/internal/app/bootstrap"
)

func newBuildCommand(a *app) *cobra.Command {
	var (
		outputDir string
		basePath  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the site as static files",
		Long: `Loads every post from the content directory, renders all listing, category,
post and About pages plus the RSS feed, and writes them with the static assets
into the output directory (default ./dist). The output directory is emptied first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if cmd.Flags().Changed("output") {
				cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("base-path") {
				cfg.BasePath = basePath
			}

			result, err := bootstrap.Build(cmd.Context(), bootstrap.Dependencies{
				Config:    cfg,
				Logger:    a.logger,
				SentryHub: a.sentryHub,
			})
			if err != nil {
				return eris.Wrap(err, "bootstrapping site")
			}
			defer func() {
				if closeErr := result.Cleanup(); closeErr != nil {
					a.logger.WithError(closeErr).Error("releasing resources")
				}
			}()

			exporter, err := result.Exporter(cfg, a.logger)
			if err != nil {
				return eris.Wrap(err, "preparing export")
			}

			report, err := exporter.Export(cmd.Context())
			if err != nil {
				return eris.Wrap(err, "exporting site")
			}

			a.logger.WithFields(logrus.Fields{
				"output":    cfg.OutputDir,
				"base_path": cfg.BasePath,
				"pages":     report.Pages,
				"assets":    report.Assets,
			}).Info("build complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides OUTPUT_DIR)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "path prefix for every generated link (overrides BASE_PATH)")
	return cmd
}
