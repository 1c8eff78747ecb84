// Package cli implements the cerditos command line.
package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cerditos-farm/cerditos/internal/daemon"
	"github.com/cerditos-farm/cerditos/internal/domain"
	"github.com/cerditos-farm/cerditos/internal/infra/logging"
)

var rootCmd = &cobra.Command{
	Use:   "cerditos",
	Short: "Pig farm ledger: herd, reproduction, sales and finance",
	Long: `cerditos keeps the records of a small pig-breeding farm (animals, matings,
farrowings, sales, expenses and feed) in a local SQLite file and derives
profit, PSY, IRR and payback from them. Run "cerditos serve" for the HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.toml (default $CERDITOS_HOME/config.toml)")
	rootCmd.PersistentFlags().String("home", "", "Data directory (overrides $CERDITOS_HOME)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func loadConfig(cmd *cobra.Command) (daemon.Config, error) {
	if home, _ := cmd.Flags().GetString("home"); home != "" {
		os.Setenv("CERDITOS_HOME", home)
	}
	path, _ := cmd.Flags().GetString("config")
	return daemon.LoadConfig(path)
}

// openDaemon loads config, builds the logger and opens the store.
// The caller must Close the daemon.
func openDaemon(cmd *cobra.Command) (*daemon.Daemon, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	d, err := daemon.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return d, log, nil
}

func dateFlag(cmd *cobra.Command, name string) (domain.Date, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s %q is not a number", name, v)
	}
	if err := domain.CheckAmountRange("--"+name, d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// money formats an amount with thousands separators and two decimals.
func money(v decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", v.Round(2).InexactFloat64())
}
