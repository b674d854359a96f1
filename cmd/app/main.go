package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"MarketSnap/internal/di"
	"MarketSnap/internal/domain/models"
	"MarketSnap/pkg/config"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "app",
	Short:         "MarketSnap daily commodities, FX and compliance-carbon snapshot",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.LoadWithEnv(configFile)
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "config/config.yaml", "config file path (empty for defaults)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := di.InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("app initialization failed: %w", err)
		}
		defer cleanup()
		return app.Run(cmd.Context())
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch all markets once and write the PDF snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if !cmd.Flags().Changed("days") {
			days = cfg.Dashboard.DefaultDays
		}
		currency, _ := cmd.Flags().GetString("currency")
		outDir, _ := cmd.Flags().GetString("out")

		if days < config.MinWindowDays || days > config.MaxWindowDays {
			return fmt.Errorf("--days must be in %d..%d", config.MinWindowDays, config.MaxWindowDays)
		}
		cur := models.Currency(currency)
		if cur != models.CurrencyLocal && cur != models.CurrencyUSD {
			return fmt.Errorf("--currency must be 'local' or 'usd'")
		}

		uc, cleanup, err := di.InitializeDashboard(cfg)
		if err != nil {
			return fmt.Errorf("pipeline initialization failed: %w", err)
		}
		defer cleanup()

		snap, err := uc.Report(cmd.Context(), models.ViewOptions{
			Days:     days,
			Currency: cur,
			Sections: models.AllSections(),
		})
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(outDir, snap.FileName)
		if err := os.WriteFile(path, snap.Data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages)\n", path, snap.Pages)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().Int("days", 30, "lookback window in days (defaults to dashboard.default_days)")
	snapshotCmd.Flags().String("currency", string(models.CurrencyUSD), "compliance price currency: local or usd")
	snapshotCmd.Flags().String("out", ".", "output directory")
}
