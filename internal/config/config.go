package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"taskfactory/internal/task"
	"taskfactory/internal/tracker"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskfactory.db"
	appDirName            = "taskfactory"
	envConfigPath         = "TASKFACTORY_CONFIG"
)

type Keymap struct {
	Quit            string `toml:"quit"`
	Add             string `toml:"add"`
	Up              string `toml:"up"`
	Down            string `toml:"down"`
	Toggle          string `toml:"toggle"`
	Delete          string `toml:"delete"`
	Confirm         string `toml:"confirm"`
	Cancel          string `toml:"cancel"`
	Priority        string `toml:"priority"`
	FilterNext      string `toml:"filter_next"`
	FilterAll       string `toml:"filter_all"`
	FilterActive    string `toml:"filter_active"`
	FilterCompleted string `toml:"filter_completed"`
	Help            string `toml:"help"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	StorageKey      string `toml:"storage_key"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultPriority string `toml:"default_priority"`
	LogFile         string `toml:"log_file"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TASKFACTORY_CONFIG, then the user config
// directory, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = tracker.DefaultKey
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		errs = append(errs, fmt.Errorf("default_filter: %w", err))
	}
	if _, err := task.ParsePriority(c.DefaultPriority); err != nil {
		errs = append(errs, fmt.Errorf("default_priority: %w", err))
	}
	return errors.Join(errs...)
}

// Filter and Priority assume Validate passed.
func (c Config) Filter() task.Filter {
	f, _ := task.ParseFilter(c.DefaultFilter)
	return f
}

func (c Config) Priority() task.Priority {
	p, _ := task.ParsePriority(c.DefaultPriority)
	return p
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:          filepath.Join(dir, DefaultDBName),
		StorageKey:      tracker.DefaultKey,
		DefaultFilter:   string(task.FilterAll),
		DefaultPriority: string(task.PriorityMedium),
		Keys: Keymap{
			Quit:            "q",
			Add:             "a",
			Up:              "k",
			Down:            "j",
			Toggle:          " ",
			Delete:          "d",
			Confirm:         "enter",
			Cancel:          "esc",
			Priority:        "tab",
			FilterNext:      "f",
			FilterAll:       "1",
			FilterActive:    "2",
			FilterCompleted: "3",
			Help:            "?",
		},
	}
}
