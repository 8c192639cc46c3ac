package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/config"
	"bazaaradmin/internal/logging"
)

const version = "0.3.0"

var (
	// Global flags
	configPath string
	apiURL     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bazaaradmin",
	Short: "bazaaradmin - terminal back office for the bazaar storefront",
	Long: `bazaaradmin is the terminal back office for the bazaar storefront API.

It manages products, inventory, orders, content and customer messages
against the REST backend, with an interactive dashboard as the main
surface and plain commands for scripting.

Run without arguments to open the dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiURL != "" {
			cfg.Server.BaseURL = apiURL
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		// The dashboard owns the terminal, so it logs to the file
		// sink only.
		if cmd.Name() == "dash" || cmd.Name() == "bazaaradmin" {
			logger = logging.Quiet(cfg.Logging)
			return nil
		}
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDash(cmd, args)
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bazaaradmin version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bazaaradmin %s\n", version)
	},
}

// newClient builds the API client from the loaded config.
func newClient() *api.Client {
	opts := []api.Option{
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(logger.Named("api")),
	}
	if cfg.Auth.Token != "" {
		opts = append(opts, api.WithToken(cfg.Auth.Token))
	}
	return api.New(cfg.Server.BaseURL, opts...)
}

// configSavePath resolves where Save writes the config back.
func configSavePath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/bazaaradmin/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
