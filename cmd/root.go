package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	accountsFile string
	threads      int
)

var rootCmd = &cobra.Command{
	Use:   "reya-claimer",
	Short: "Activate Reya accounts and claim the OG soulbound token.",
	Long: `Reads wallets from accounts_data.xlsx (or a private_keys.txt list), activates
the Reya margin account when missing, checks mint eligibility and submits a
signed claim for every eligible wallet.`,
	RunE:         runClaim,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "toml config file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVarP(&accountsFile, "accounts", "a", "", "wallets file, .xlsx or .txt (overrides input.path)")
	rootCmd.PersistentFlags().IntVarP(&threads, "threads", "t", 0, "wallets processed at once (overrides runner.threads)")
}
