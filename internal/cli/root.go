package cli

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskfactory/internal/config"
	"taskfactory/internal/storage"
	"taskfactory/internal/tracker"
	"taskfactory/internal/ui"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:           "taskfactory",
	Short:         "Terminal task tracker",
	Long:          `Task Factory keeps a list of prioritized tasks, lets you tick them off, and shows how much of the queue is done.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file, overrides db_path")
	rootCmd.AddCommand(listCmd, statsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openStore opens the database named by cfg and loads the task list from
// it. The caller closes the returned database.
func openStore(cfg config.Config, logger *log.Logger) (*storage.Store, *tracker.Store, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := tracker.Open(db, tracker.Options{
		Key:           cfg.StorageKey,
		Filter:        cfg.Filter(),
		DraftPriority: cfg.Priority(),
		Logger:        logger,
	})
	return db, store, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Nothing may write to the terminal while the alt screen is up.
	log.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "taskfactory")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	}

	db, store, err := openStore(cfg, log.Default())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ui.Run(store, cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
