package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poundfoolish/poundfoolish/internal/config"
	"github.com/poundfoolish/poundfoolish/internal/news"
	"github.com/poundfoolish/poundfoolish/internal/provider"
	"github.com/poundfoolish/poundfoolish/internal/screener"
)

const version = "1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "poundfoolish",
		Short: "PoundFoolish - penny-stock screener for the terminal",
		Long: `PoundFoolish screens a random sample of low-priced US equities against
configurable thresholds (price, volume, market cap, relative volume, momentum,
news recency) and computes per-stock trade plans with stop-loss and target.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newScreenCmd(cfg))
	rootCmd.AddCommand(newWatchCmd(cfg))
	rootCmd.AddCommand(newPlanCmd(cfg))
	rootCmd.AddCommand(newNewsCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	prod := zap.NewProductionConfig()
	prod.OutputPaths = []string{"stderr"}
	prod.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return prod.Build()
}

// newScreenCmd creates the screen command
func newScreenCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Run one screening pass over a random symbol sample",
		Long: `Fetch quotes and profiles for a random sample of US symbols, apply the
active filters and print the promising ones.
Example: poundfoolish screen --max-symbols=20 --news`,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSymbols, _ := cmd.Flags().GetInt("max-symbols")
			showAll, _ := cmd.Flags().GetBool("all")
			withNews, _ := cmd.Flags().GetBool("news")

			return runScreenCommand(cfg, maxSymbols, showAll, withNews)
		},
	}

	cmd.Flags().Int("max-symbols", 0, "How many symbols to sample (defaults to MAX_SYMBOLS)")
	cmd.Flags().Bool("all", false, "Show every fetched stock, bypassing the filters")
	cmd.Flags().Bool("news", false, "Fetch recent news and require it for a match")

	return cmd
}

func runScreenCommand(cfg *config.Config, maxSymbols int, showAll, withNews bool) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mgr, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	filters := mgr.Get().Filters
	if showAll {
		filters.ShowAllStocks = true
	}
	if withNews {
		filters.RequireRecentNews = true
	}
	if maxSymbols <= 0 {
		maxSymbols = cfg.MaxSymbols
	}

	prov, err := provider.New(cfg, logger)
	if err != nil {
		return err
	}

	scr := screener.NewScreener(prov, cfg, filters, logger)
	defer scr.Stop()

	DisplayInfo(fmt.Sprintf("Screening %d random symbols via %s...", maxSymbols, prov.Name()))

	if err := scr.Refresh(context.Background(), maxSymbols); err != nil {
		return err
	}

	snap := scr.Snapshot()
	fmt.Println(RenderStatus(snap))
	if len(snap.Promising) == 0 {
		DisplayInfo("No promising stocks this pass. Try --all to inspect the whole sample.")
		return nil
	}
	fmt.Println(RenderStockTable(snap.Promising))
	return nil
}

// newWatchCmd creates the watch command
func newWatchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Screen continuously, re-rendering as results change",
		Long: `Run screening passes on an interval and keep the result table up to date.
Empty passes schedule an automatic retry; a rate-limit trip triggers a
cooldown countdown. Settings file changes are picked up live.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSymbols, _ := cmd.Flags().GetInt("max-symbols")
			interval, _ := cmd.Flags().GetDuration("interval")

			return runWatchCommand(cfg, maxSymbols, interval)
		},
	}

	cmd.Flags().Int("max-symbols", 0, "How many symbols to sample per pass")
	cmd.Flags().Duration("interval", 5*time.Minute, "Delay between screening passes")

	return cmd
}

func runWatchCommand(cfg *config.Config, maxSymbols int, interval time.Duration) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mgr, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if maxSymbols <= 0 {
		maxSymbols = cfg.MaxSymbols
	}

	prov, err := provider.New(cfg, logger)
	if err != nil {
		return err
	}

	scr := screener.NewScreener(prov, cfg, mgr.Get().Filters, logger)
	defer scr.Stop()

	scr.SetOnUpdate(func(snap screener.Snapshot) {
		ClearScreen()
		fmt.Println(RenderStatus(snap))
		if len(snap.Promising) > 0 {
			fmt.Println(RenderStockTable(snap.Promising))
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Filter edits from `config edit` in another terminal apply live.
	if err := mgr.Watch(ctx, func(s config.Settings) {
		scr.UpdateFilters(s.Filters)
	}); err != nil {
		logger.Warn("settings watcher unavailable", zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := scr.Refresh(ctx, maxSymbols); err != nil {
			logger.Warn("screening pass failed", zap.Error(err))
		}

		select {
		case <-sigCh:
			fmt.Println()
			DisplayInfo("Stopping watch.")
			return nil
		case <-ticker.C:
		}
	}
}

// newPlanCmd creates the plan command
func newPlanCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [SYMBOL]",
		Short: "Compute a trade plan for one symbol",
		Long: `Fetch the symbol's quote, profile and recent daily candles, then derive
entry, stop-loss, target and position size.
Example: poundfoolish plan SNDL --max-risk=50 --stop-mode=custom --stop-pct=10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			return runPlanCommand(cfg, cmd, symbol)
		},
	}

	cmd.Flags().Float64("max-risk", 0, "Max dollars risked on the trade")
	cmd.Flags().Float64("max-position", 0, "Max dollars committed to the position")
	cmd.Flags().String("stop-mode", "", "Stop-loss mode: auto or custom")
	cmd.Flags().Float64("stop-pct", 0, "Stop-loss percentage for custom mode")
	cmd.Flags().String("target-mode", "", "Target mode: auto or custom")
	cmd.Flags().Float64("target-pct", 0, "Target percentage for custom mode")

	return cmd
}

func runPlanCommand(cfg *config.Config, cmd *cobra.Command, symbol string) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mgr, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	params := mgr.Get().Plan
	if v, _ := cmd.Flags().GetFloat64("max-risk"); v > 0 {
		params.MaxRisk = v
	}
	if v, _ := cmd.Flags().GetFloat64("max-position"); v > 0 {
		params.MaxPosition = v
	}
	if v, _ := cmd.Flags().GetString("stop-mode"); v != "" {
		params.StopLossMode = v
	}
	if v, _ := cmd.Flags().GetFloat64("stop-pct"); v > 0 {
		params.StopLossPct = v
	}
	if v, _ := cmd.Flags().GetString("target-mode"); v != "" {
		params.TargetMode = v
	}
	if v, _ := cmd.Flags().GetFloat64("target-pct"); v > 0 {
		params.TargetPct = v
	}
	if err := (config.Settings{Filters: mgr.Get().Filters, Plan: params}).Validate(); err != nil {
		return err
	}

	prov, err := provider.New(cfg, logger)
	if err != nil {
		return err
	}

	DisplayInfo(fmt.Sprintf("Fetching %s...", symbol))
	stock, err := screener.FetchDetail(context.Background(), prov, symbol, 60, false, logger)
	if err != nil {
		return err
	}

	plan := screener.ComputeTradePlan(stock, params)
	if plan == nil {
		return fmt.Errorf("no usable price for %s", symbol)
	}

	fmt.Println(RenderStockDetail(stock))
	fmt.Println(RenderTradePlan(plan))
	if stock.Candles != nil {
		fmt.Println(RenderIndicators(stock.Candles))
	}
	return nil
}

// newNewsCmd creates the news command
func newNewsCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news [SYMBOL]",
		Short: "List recent news for a symbol",
		Long: `List the past week of company news headlines. Use --read to fetch and
print the full text of one article by its list position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			readIndex, _ := cmd.Flags().GetInt("read")
			return runNewsCommand(cfg, symbol, readIndex)
		},
	}

	cmd.Flags().Int("read", 0, "Read the full text of article N (1-based)")

	return cmd
}

func runNewsCommand(cfg *config.Config, symbol string, readIndex int) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	prov, err := provider.New(cfg, logger)
	if err != nil {
		return err
	}

	articles, err := prov.GetNews(context.Background(), symbol)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		DisplayInfo(fmt.Sprintf("No recent news for %s.", symbol))
		return nil
	}

	if readIndex > 0 {
		if readIndex > len(articles) {
			return fmt.Errorf("article %d out of range, %s has %d articles", readIndex, symbol, len(articles))
		}
		target := articles[readIndex-1]
		if target.URL == "" {
			return fmt.Errorf("article %d has no URL to read", readIndex)
		}

		scraper := news.NewScraper(cfg, logger)
		article, err := scraper.ReadArticle(context.Background(), target.URL)
		if err != nil {
			return err
		}
		fmt.Println(RenderArticle(article))
		return nil
	}

	fmt.Println(RenderNewsList(symbol, articles))
	return nil
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage screening filters and trade-plan defaults",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager()
			if err != nil {
				return err
			}
			showConfig(cfg, mgr)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Interactively edit filters and trade-plan defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager()
			if err != nil {
				return err
			}

			settings := mgr.Get()
			settings.Filters, err = promptFilterConfig(settings.Filters)
			if err != nil {
				return err
			}
			settings.Plan, err = promptPlanParams(settings.Plan)
			if err != nil {
				return err
			}

			if err := mgr.Update(settings); err != nil {
				return err
			}
			DisplaySuccess(fmt.Sprintf("Settings saved to %s", mgr.Path()))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default filters and trade-plan settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager()
			if err != nil {
				return err
			}
			if err := mgr.Update(config.DefaultSettings()); err != nil {
				return err
			}
			DisplaySuccess("Settings restored to defaults.")
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager()
			if err != nil {
				return err
			}
			fmt.Println(mgr.Path())
			return nil
		},
	})

	return configCmd
}

func showConfig(cfg *config.Config, mgr *config.Manager) {
	settings := mgr.Get()

	fmt.Println("Current PoundFoolish Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Settings File:        %s\n", mgr.Path())
	fmt.Println()
	fmt.Printf("Stock Provider:       %s\n", cfg.StockProvider)
	if cfg.FinnhubAPIKey != "" {
		fmt.Println("Finnhub API:          configured")
	} else {
		fmt.Println("Finnhub API:          not configured (set FINNHUB_API_KEY)")
	}
	fmt.Printf("Rate Limit:           %d calls per %s\n", cfg.RateLimit, cfg.RateWindow)
	fmt.Printf("Request Delay:        %s (%s with news)\n", cfg.RequestDelay, cfg.NewsRequestDelay)
	fmt.Printf("Retry Delay:          %s\n", cfg.RetryDelay)
	fmt.Printf("Cooldown:             %s\n", cfg.CooldownDuration)
	fmt.Printf("Max Symbols:          %d\n", cfg.MaxSymbols)
	fmt.Println()
	fmt.Println("Screening Filters:")
	fmt.Println("─────────────────────")
	fmt.Printf("Max Price:            $%.2f\n", settings.Filters.MaxPrice)
	fmt.Printf("Min Volume:           %d\n", settings.Filters.MinVolume)
	fmt.Printf("Market Cap Range:     $%.0f - $%.0f\n", settings.Filters.MinMarketCap, settings.Filters.MaxMarketCap)
	fmt.Printf("Min Relative Volume:  %.2f\n", settings.Filters.MinRelativeVolume)
	fmt.Printf("Min Percent Change:   %.2f%%\n", settings.Filters.MinPercentChange)
	fmt.Printf("Require Recent News:  %t\n", settings.Filters.RequireRecentNews)
	fmt.Println()
	fmt.Println("Trade Plan Defaults:")
	fmt.Println("─────────────────────")
	fmt.Printf("Max Risk:             $%.2f\n", settings.Plan.MaxRisk)
	fmt.Printf("Max Position:         $%.2f\n", settings.Plan.MaxPosition)
	fmt.Printf("Stop Loss:            %s (%.1f%%)\n", settings.Plan.StopLossMode, settings.Plan.StopLossPct)
	fmt.Printf("Target:               %s (%.1f%%)\n", settings.Plan.TargetMode, settings.Plan.TargetPct)
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("PoundFoolish v%s\n", version)
			fmt.Println("Penny-stock screener and trade planner")
		},
	}
}
