package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tripkit-labs/tripkit/internal/branding"
	"github.com/tripkit-labs/tripkit/internal/config"
	"github.com/tripkit-labs/tripkit/internal/logger"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a folder for each trip inside your notes vault and seeds it
with an itinerary and a packing list, copied from your templates when they
exist. Running it again never overwrites anything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step to stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.tripkit/config.yaml)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	defer logger.Sync()
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// invocation is what a command reads from settings, once, before it runs.
type invocation struct {
	store    *config.Store
	settings config.Settings
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.FilePath()
}

// loadInvocation reads the settings and sets up logging for this run.
func loadInvocation() (*invocation, error) {
	store, err := config.LoadFile(configPath())
	if err != nil {
		return nil, err
	}
	settings, err := store.Settings()
	if err != nil {
		return nil, err
	}
	if err := setupLogging(settings.Environment); err != nil {
		return nil, err
	}
	return &invocation{store: store, settings: settings}, nil
}

func setupLogging(environment string) error {
	switch {
	case verbose:
		return logger.Setup(logger.DevelopmentEnvironment)
	case environment == logger.ProductionEnvironment:
		return logger.Setup(logger.ProductionEnvironment)
	default:
		logger.SetupQuiet()
		return nil
	}
}
