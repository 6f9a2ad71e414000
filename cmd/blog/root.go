package main

import (
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bitscycles/blog/internal/config"
	applog "bitscycles/blog/internal/log"
)

// app carries what PersistentPreRunE prepares for every subcommand.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *logrus.Logger
	sentryHub  *sentry.Hub
	flush      func()
}

func newRootCommand() *cobra.Command {
	a := &app{flush: func() {}}

	root := &cobra.Command{
		Use:           "blog",
		Short:         "Bits, Cycles, and Packets static blog generator",
		Long:          "Renders Markdown and MDX posts into a paginated static site, or previews it locally.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Name())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.flush()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "optional config file (yaml, toml or json); environment variables take precedence")

	root.AddCommand(newBuildCommand(a), newServeCommand(a))
	return root
}

func (a *app) init(command string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFile(a.configFile)
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	hub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Command:     command,
	})
	if err != nil {
		return eris.Wrap(err, "failure initialising sentry")
	}

	a.cfg = cfg
	a.logger = logger
	a.sentryHub = hub
	a.flush = flush
	return nil
}
