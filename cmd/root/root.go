// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/Kris2339/MEO-PayDay/internal/config"
	"github.com/Kris2339/MEO-PayDay/internal/container"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Store      string
	Policy     string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "meo-settle",
		Short: "Classify inventory shipment and receipt spreadsheets into settlement categories.",
		Long: `meo-settle reads outbound (출고) and inbound (입고) inventory spreadsheets,
classifies every row into a settlement category and writes a single result workbook.
It also maintains the market product name list the classification depends on.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer != nil {
				if err := appContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.meo-settle, .meo-settle or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Store, "store", "", "Market list backend (memory, file, github, gcs)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Policy, "policy", "", "Classification policy (override or first-match)")
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the command container. Intended for tests.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if appContainer != nil {
		return nil
	}
	config.LoadEnv()

	cfg, err := loadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg, SharedFlags)

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	SetContainer(c)
	return nil
}

// loadConfig reads the file given with --config, or searches the standard
// locations when none was given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.InitializeConfig()
	}
	return config.InitializeConfigFromFile(path)
}

// applyOverrides copies non-empty command-line flags over the configuration.
func applyOverrides(cfg *config.Config, flags CommonFlags) {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if flags.Store != "" {
		cfg.Store.Backend = flags.Store
	}
	if flags.Policy != "" {
		cfg.Classification.Policy = flags.Policy
	}
}
