package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AmmannChristian/go-esplora/config"
	"github.com/AmmannChristian/go-esplora/esplora"
)

const (
	baseURLFlagName = "base-url"
	verboseFlagName = "verbose"
)

// app carries state shared by all subcommands. It is populated in the root PersistentPreRunE.
type app struct {
	baseURL string
	verbose bool

	logger *zap.Logger
	client *esplora.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "esplora",
		Short:         "Query the Esplora blockchain API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.baseURL, baseURLFlagName, "", "API base URL (overrides ESPLORA_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, verboseFlagName, "v", false, "Enable debug logging to stderr")

	rootCmd.AddCommand(
		newBlockCmd(a),
		newTipCmd(a),
		newTxCmd(a),
		newBroadcastCmd(a),
		newAddressCmd(a),
		newUtxoCmd(a),
		newMempoolCmd(a),
		newFeesCmd(a),
		newAssetCmd(a),
		newTokenCmd(a),
	)

	return rootCmd
}

func (a *app) setup(ctx context.Context) error {
	logger, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}

	stdLog, err := zap.NewStdLogAt(logger.Named("esplora"), zapcore.DebugLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	logger.Debug("configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("authenticated", cfg.Authenticated()),
		zap.Duration("timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Bool("tls_files", cfg.TLS.Enabled()),
		zap.Bool("tls_insecure_skip_verify", cfg.TLS.InsecureSkipVerify),
	)
	if cfg.TLS.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled")
	}

	a.client, err = esplora.NewFromConfig(ctx, cfg, esplora.WithLogger(stdLog))
	return err
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopmentConfig().Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
