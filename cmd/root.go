// Package cmd implements the command-line interface for gobid.
// It provides the root command and subcommands for scraping listings
// and running the bidding pipeline.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/netly-dev/gobid/cmd/process"
	"github.com/netly-dev/gobid/cmd/projects"
	"github.com/netly-dev/gobid/cmd/run"
	"github.com/netly-dev/gobid/cmd/scrape"
	"github.com/netly-dev/gobid/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the gobid CLI.
	rootCmd = &cobra.Command{
		Use:   "gobid",
		Short: "An auto-bidding assistant for freelance marketplaces",
		Long: `An auto-bidding assistant for freelance marketplaces built with Go.
It scrapes project listings, decides whether to bid with a generated
message, and submits bids through the marketplace's own form.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Stop before the next project on interrupt; no mid-project abort
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add subcommands
	rootCmd.AddCommand(run.Command())
	rootCmd.AddCommand(scrape.Command())
	rootCmd.AddCommand(process.Command())
	rootCmd.AddCommand(projects.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// This ensures environment variables take precedence over defaults
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults (only used if environment variables or config file don't provide values)
	setDefaults()

	// Read config file
	// Note: Config file is optional - if not found, we'll use defaults and environment variables
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	// Bind command-line flags to Viper
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}

	setupDebugLogging()

	return nil
}

// setupDebugLogging raises the log level when debug mode is requested.
func setupDebugLogging() {
	debugFlag := Debug || viper.GetBool("debug")
	if debugFlag {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}
	Debug = debugFlag
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("debug", false)

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "console",
	})

	// Browser defaults
	viper.SetDefault("browser", map[string]any{
		"headless":       true,
		"locate_timeout": config.DefaultLocateTimeout.String(),
		"marker_timeout": config.DefaultMarkerTimeout.String(),
		"page_timeout":   config.DefaultPageTimeout.String(),
	})

	// Generation defaults
	viper.SetDefault("ai", map[string]any{
		"base_url":    config.DefaultAIBaseURL,
		"model":       config.DefaultAIModel,
		"temperature": config.DefaultAITemperature,
		"top_p":       config.DefaultAITopP,
		"max_tokens":  config.DefaultAIMaxTokens,
		"max_tries":   config.DefaultAIMaxTries,
	})

	// Bid form defaults
	viper.SetDefault("bid", map[string]any{
		"default_price":    config.DefaultBidPrice,
		"default_currency": config.DefaultBidCurrency,
		"default_days":     config.DefaultBidDays,
	})

	viper.SetDefault("auth", map[string]any{
		"mfa_max_tries": config.DefaultMFAMaxTries,
	})
}
