package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/WhereIsMyMindDL/ReyaOGClaimer/accounts"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/claimer"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/config"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/logger"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/reya"
)

var _ claimer.API = (*reya.Client)(nil)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Run the claim over every wallet (default command).",
	RunE:  runClaim,
}

func init() {
	rootCmd.AddCommand(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if accountsFile != "" {
		cfg.Input.Path = accountsFile
	}
	if threads > 0 {
		cfg.Runner.Threads = threads
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	records, err := accounts.Load(cfg.Input.Path, cfg.Input.Sheet)
	if err != nil {
		log.Error("failed to load wallets", zap.String("path", cfg.Input.Path), zap.Error(err))
		return errors.Wrap(err, "failed to load wallets")
	}

	newAPI := func(proxy string) (claimer.API, error) {
		client, err := reya.NewClient(cfg.API, proxy)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	runner := claimer.NewRunner(
		claimer.SettingsFromConfig(cfg),
		cfg.Runner.Threads,
		newAPI,
		log,
		claimer.WithDelayBetweenAccounts(cfg.Runner.DelayBetweenAccounts),
	)
	runner.Run(context.Background(), records)

	log.Info("the work completed")
	return nil
}
