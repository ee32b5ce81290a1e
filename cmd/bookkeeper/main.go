// cmd/bookkeeper/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bookkeeper/internal/catalog"
	"bookkeeper/internal/cli"
	"bookkeeper/internal/config"
	"bookkeeper/internal/logging"
	"bookkeeper/internal/telemetry"
)

var (
	// Version is set via -ldflags at build time.
	Version = "dev"

	cfgFile string
)

func main() {
	cmd, err := newRootCmd(config.New())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           "bookkeeper",
		Short:         "Interactive book catalog",
		Long:          `bookkeeper keeps a catalog of books in memory and saves it to a JSON file on request.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file path (yaml)")
	flags.StringP("data-file", "f", "", "catalog file used by load and save")
	flags.Int("max-year", 0, "latest publication year accepted when adding books")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-file", "", "write JSON logs to this file instead of stderr")
	flags.String("otlp-endpoint", "", "OTLP/HTTP endpoint for traces (host:port)")

	err := errors.Join(
		v.BindPFlag("data_file", flags.Lookup("data-file")),
		v.BindPFlag("max_year", flags.Lookup("max-year")),
		v.BindPFlag("log.level", flags.Lookup("log-level")),
		v.BindPFlag("log.file", flags.Lookup("log-file")),
		v.BindPFlag("telemetry.endpoint", flags.Lookup("otlp-endpoint")),
	)
	if err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return cmd, nil
}

func run(ctx context.Context, v *viper.Viper, cmd *cobra.Command) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	logger = logger.With("session", session.ID.String())
	logger.Info("starting bookkeeper", "version", Version, "data_file", cfg.DataFile, "telemetry", session.Enabled)

	svc := catalog.NewService(catalog.New(), catalog.WithLogger(logger))
	menu := cli.NewMenu(svc, cmd.InOrStdin(), cmd.OutOrStdout(), cli.Options{
		DataFile: cfg.DataFile,
		MaxYear:  cfg.MaxYear,
	}, logger)

	if err := menu.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("menu: %w", err)
	}
	return nil
}
