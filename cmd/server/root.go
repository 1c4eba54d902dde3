package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/sgisync/internal/config"
	"github.com/iudanet/sgisync/internal/logging"
)

// Глобальные флаги
var (
	flagConfigPath string
	flagVerbose    bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sgisync-server",
		Short:         "Offline-first sync server",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path (TOML)")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig применяет цепочку: defaults -> файл -> SGISYNC_* -> флаги.
// bind привязывает флаги команды к ключам конфигурации.
func loadConfig(cmd *cobra.Command, bind map[string]string) (*config.Server, error) {
	v := viper.New()
	for key, flag := range bind {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.LoadServer(v, flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func buildLogger(cfg config.Log) (*slog.Logger, io.Closer, error) {
	logger, closer, err := logging.New(cfg, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}

// shutdownContext отменяется на первом SIGINT/SIGTERM, второй сигнал завершает процесс
func shutdownContext(parent context.Context, logger *slog.Logger) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warn("Received second signal, forcing exit", "signal", sig.String())
			os.Exit(1)
		case <-parent.Done():
		}
	}()

	return ctx
}
