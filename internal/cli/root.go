// ABOUTME: Root command definition and CLI setup
// ABOUTME: Handles global flags, configuration loading and opening the store
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/config"
	"github.com/harper/symptomlog/internal/store"
)

var (
	configPath   string
	dbPathFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "symptomlog",
	Short: "Symptom journal",
	Long: `Symptomlog records symptom entries (severity, pain type, body part, medication,
vitals) in a local SQLite database and keeps track of known body parts and medications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/symptomlog/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (overrides config and "+config.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
}

// app bundles what a command needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	logger *log.Logger
	store  *store.Store
}

// loadConfig resolves the configuration: defaults, file, environment, then flags.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	return cfg, nil
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "symptomlog",
	}), nil
}

// openApp loads configuration and opens the store. Callers must Close the result.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &app{cfg: cfg, loc: loc, logger: logger, store: st}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close database", "err", err)
	}
}
