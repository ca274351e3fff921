package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sadbox/echobot/pkg/botutil"
	"github.com/sadbox/echobot/pkg/config"
	"github.com/sadbox/echobot/pkg/echobot"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("Bot error", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:           "echobot",
		Short:         "Discord bot that announces itself and echoes the test command",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, envFile)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "path or s3:// URL of the YAML config")
	cmd.Flags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "env file loaded before reading the environment; empty to skip")
	return cmd
}

func run(ctx context.Context, configPath, envFile string) error {
	cfg, err := config.Load(ctx, configPath, config.WithEnvFile(envFile))
	if err != nil {
		return err
	}

	log := botutil.NewLogger(os.Stderr, cfg.LogLevel, isatty.IsTerminal(os.Stderr.Fd()))
	slog.SetDefault(log)

	b, err := echobot.New(cfg, log)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}
