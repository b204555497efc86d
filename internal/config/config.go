package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/store"
)

// FileName is the project configuration file inside a project directory.
const FileName = "flora.yaml"

// Storage backends.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config represents the top-level flora.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Settings SettingsConfig `yaml:"settings"`
	Storage  StorageConfig  `yaml:"storage"`
	Backup   BackupConfig   `yaml:"backup"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business.
type BusinessConfig struct {
	Name  string `yaml:"name"`
	Owner string `yaml:"owner,omitempty"`
}

// SettingsConfig holds the rates a new ledger starts with, as percentages.
type SettingsConfig struct {
	StateTaxRate       float64 `yaml:"state_tax_rate"`
	FederalSETaxRate   float64 `yaml:"federal_se_tax_rate"`
	MarketplaceFeeRate float64 `yaml:"marketplace_fee_rate"`
}

// StorageConfig selects where the ledger blob lives.
type StorageConfig struct {
	Backend   string      `yaml:"backend"` // "file" or "mongo"
	Namespace string      `yaml:"namespace"`
	Path      string      `yaml:"path"` // file backend directory, relative to the project
	Mongo     MongoConfig `yaml:"mongo"`
}

// MongoConfig holds settings for MongoDB.
type MongoConfig struct {
	URI        string `yaml:"uri,omitempty"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// BackupConfig controls scheduled snapshots.
type BackupConfig struct {
	Dir      string `yaml:"dir"`
	Schedule string `yaml:"schedule"` // cron expression
	Keep     int    `yaml:"keep"`     // snapshots retained, 0 keeps all
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Load reads a flora.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadWithEnv reads flora.yaml, then applies environment overrides. Variables
// from envFile are loaded first when it exists; variables already set in the
// environment win over the file.
func LoadWithEnv(path, envFile string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FLORA_* environment variables.
func (c *Config) ApplyEnv() {
	c.Storage.Backend = getenvWithDefault("FLORA_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Mongo.URI = getenvWithDefault("FLORA_MONGO_URI", c.Storage.Mongo.URI)
	c.Storage.Mongo.Database = getenvWithDefault("FLORA_MONGO_DATABASE", c.Storage.Mongo.Database)
	c.Log.Level = getenvWithDefault("FLORA_LOG_LEVEL", c.Log.Level)
	c.Backup.Schedule = getenvWithDefault("FLORA_BACKUP_SCHEDULE", c.Backup.Schedule)
}

// Validate ensures the configuration can be used.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch strings.ToLower(c.Storage.Backend) {
	case BackendFile:
		if c.Storage.Path == "" {
			return errors.New("storage.path must be provided for the file backend")
		}
	case BackendMongo:
		if c.Storage.Mongo.URI == "" {
			return errors.New("FLORA_MONGO_URI or storage.mongo.uri must be provided for the mongo backend")
		}
		if c.Storage.Mongo.Database == "" {
			return errors.New("storage.mongo.database must be provided for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Backup.Keep < 0 {
		return errors.New("backup.keep must not be negative")
	}
	for name, v := range map[string]float64{
		"state_tax_rate":       c.Settings.StateTaxRate,
		"federal_se_tax_rate":  c.Settings.FederalSETaxRate,
		"marketplace_fee_rate": c.Settings.MarketplaceFeeRate,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("settings.%s must be between 0 and 100", name)
		}
	}
	return nil
}

// LedgerSettings converts the configured rates for a new ledger.
func (s SettingsConfig) LedgerSettings() model.Settings {
	return model.Settings{
		StateTaxRate:       decimal.NewFromFloat(s.StateTaxRate),
		FederalSETaxRate:   decimal.NewFromFloat(s.FederalSETaxRate),
		MarketplaceFeeRate: decimal.NewFromFloat(s.MarketplaceFeeRate),
	}
}

// Save writes a Config to a YAML file. The Mongo URI may carry credentials
// and is never written; keep it in the environment.
func Save(path string, cfg *Config) error {
	out := *cfg
	out.Storage.Mongo.URI = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	def := model.DefaultSettings()
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Settings: SettingsConfig{
			StateTaxRate:       def.StateTaxRate.InexactFloat64(),
			FederalSETaxRate:   def.FederalSETaxRate.InexactFloat64(),
			MarketplaceFeeRate: def.MarketplaceFeeRate.InexactFloat64(),
		},
		Storage: StorageConfig{
			Backend:   BackendFile,
			Namespace: store.DefaultNamespace,
			Path:      "data",
			Mongo: MongoConfig{
				Database:   "flora",
				Collection: store.DefaultCollection,
			},
		},
		Backup: BackupConfig{
			Dir:      "backups",
			Schedule: "0 2 * * *",
			Keep:     14,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
