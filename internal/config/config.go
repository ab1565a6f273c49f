package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bankledger-dev/bankledger/internal/logging"
)

// FileName is the default config file name.
const FileName = "bankledger.yaml"

// Environment variables that override the file.
const (
	EnvDB       = "BANKLEDGER_DB"
	EnvCurrency = "BANKLEDGER_CURRENCY"
	EnvLogLevel = "BANKLEDGER_LOG_LEVEL"
)

// Config represents the top-level bankledger.yaml configuration.
type Config struct {
	Ledger   LedgerConfig   `yaml:"ledger"`
	Database DatabaseConfig `yaml:"database"`
	Currency CurrencyConfig `yaml:"currency"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// LedgerConfig names the ledger.
type LedgerConfig struct {
	Name string `yaml:"name"`
}

// DatabaseConfig locates the SQLite file. Relative paths are resolved
// against the config file's directory.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CurrencyConfig controls how amounts are displayed.
type CurrencyConfig struct {
	Code   string `yaml:"code"`   // ISO 4217, e.g. "EGP"
	Locale string `yaml:"locale"` // "en" or "ar"; month names in reports
}

// ImportConfig locates the directory scanned for statement CSVs.
type ImportConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a bankledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(ledgerName string) *Config {
	return &Config{
		Ledger:   LedgerConfig{Name: ledgerName},
		Database: DatabaseConfig{Path: "bankledger.db"},
		Currency: CurrencyConfig{Code: "EGP", Locale: "en"},
		Import:   ImportConfig{Dir: "import"},
		Log:      LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// LoadEnvFile loads variables from a .env file into the process
// environment without overriding ones already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment, read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDB); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvCurrency); ok && v != "" {
		c.Currency.Code = strings.ToUpper(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// Resolve makes the relative paths in c absolute against dir.
func (c *Config) Resolve(dir string) {
	c.Database.Path = resolve(dir, c.Database.Path)
	c.Import.Dir = resolve(dir, c.Import.Dir)
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate reports every problem in c at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if gomoney.GetCurrency(strings.ToUpper(c.Currency.Code)) == nil {
		errs = append(errs, fmt.Errorf("currency.code %q is not a known ISO 4217 code", c.Currency.Code))
	}
	switch c.Currency.Locale {
	case "", "en", "ar":
	default:
		errs = append(errs, fmt.Errorf("currency.locale %q must be en or ar", c.Currency.Locale))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}
