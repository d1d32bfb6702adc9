// Package config handles loading and resolving franq configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags
//  2. Environment variables (FRANQ_*, optionally from a .env file)
//  3. config.json in the current working directory
//
// config.json is also where account credentials live. If the file is missing
// the loader writes a template with placeholder credentials and returns
// SetupRequiredError so the caller halts with operator guidance instead of
// proceeding with empty credentials.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultConfigFile  = "config.json"
	DefaultLogFile     = "error.log"
	DefaultBaseURL     = "https://liveiqfranchiseeapi.subway.com"
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 10
	EnvPrefix          = "franq"
)

// AccountEntry is one account record in config.json. The JSON field names
// are fixed by the operator-facing file format.
type AccountEntry struct {
	Name      string `json:"Name" validate:"required"`
	ClientID  string `json:"ClientID" validate:"required"`
	ClientKEY string `json:"ClientKEY" validate:"required"`
}

// File is the on-disk representation of config.json.
type File struct {
	Accounts    []AccountEntry `json:"accounts"`
	BaseURL     string         `json:"base_url,omitempty"`
	Timeout     string         `json:"timeout,omitempty"`
	Concurrency int            `json:"concurrency,omitempty"`
	LogFile     string         `json:"log_file,omitempty"`
	DBPath      string         `json:"db_path,omitempty"`
}

// envOverrides is the environment layer, processed with the FRANQ_ prefix.
type envOverrides struct {
	BaseURL     string        `envconfig:"BASE_URL"`
	Timeout     time.Duration `envconfig:"TIMEOUT"`
	Concurrency int           `envconfig:"CONCURRENCY"`
	LogFile     string        `envconfig:"LOG_FILE"`
	DBPath      string        `envconfig:"DB_PATH"`
}

// Config is the fully-resolved runtime configuration. All callers use this
// struct; File is only read during loading.
type Config struct {
	Accounts    []AccountEntry
	BaseURL     string
	Timeout     time.Duration
	Concurrency int
	LogFile     string
	DBPath      string
	ConfigPath  string // path of the config.json that was loaded

	// Runtime overrides set from CLI flags after Load()
	Format  string
	Quiet   bool
	Verbose bool
	Debug   bool
}

// SetupRequiredError signals that no config.json existed and a template was
// written in its place. Fatal at startup; the message is operator guidance.
type SetupRequiredError struct {
	Path string
}

func (e *SetupRequiredError) Error() string {
	return fmt.Sprintf(
		"no configuration found.\n\n"+
			"A starter %s has been created with placeholder accounts.\n"+
			"Add your LiveIQ credentials (ClientID / ClientKEY per franchisee)\n"+
			"and run franq again.",
		e.Path,
	)
}

// Load resolves configuration from all sources. path is the value of
// --config (empty means ./config.json). A missing file writes the template
// and returns *SetupRequiredError.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		LogFile:     DefaultLogFile,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := WriteFile(path, Template()); werr != nil {
				return nil, fmt.Errorf("writing template config: %w", werr)
			}
			return nil, &SetupRequiredError{Path: path}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyFile(cfg, &f, path)

	// An exported-but-empty FRANQ_* variable means unset, not a zero value;
	// envconfig would otherwise fail converting "" to a duration or int.
	for _, suffix := range []string{"BASE_URL", "TIMEOUT", "CONCURRENCY", "LOG_FILE", "DB_PATH"} {
		name := strings.ToUpper(EnvPrefix) + "_" + suffix
		if v, ok := os.LookupEnv(name); ok && v == "" {
			os.Unsetenv(name)
		}
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	applyEnv(cfg, &env)

	if cfg.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DBPath = filepath.Join(home, ".franq", "franq.db")
		}
	}

	return cfg, nil
}

// Validate returns an error if the configuration cannot support a run at
// all. Individual malformed account entries are not fatal (bootstrap skips
// them); having no accounts is.
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("no accounts configured in %s", c.ConfigPath)
	}
	return nil
}

var entryValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateEntry checks that an account entry carries a name, id, and key.
// Entries failing validation are skipped by bootstrap with a logged warning.
func ValidateEntry(e AccountEntry) error {
	if err := entryValidator.Struct(e); err != nil {
		return fmt.Errorf("account entry %q: missing required field", e.Name)
	}
	return nil
}

func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	cfg.Accounts = f.Accounts
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if f.Concurrency > 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
}

func applyEnv(cfg *Config, env *envOverrides) {
	if env.BaseURL != "" {
		cfg.BaseURL = env.BaseURL
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout
	}
	if env.Concurrency > 0 {
		cfg.Concurrency = env.Concurrency
	}
	if env.LogFile != "" {
		cfg.LogFile = env.LogFile
	}
	if env.DBPath != "" {
		cfg.DBPath = env.DBPath
	}
}

// Redact masks a credential for display, keeping only the edges.
func Redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}

// Template returns a File with three placeholder accounts, matching the
// starter file the operator is asked to fill in.
func Template() File {
	placeholder := func(name string) AccountEntry {
		return AccountEntry{
			Name:      name,
			ClientID:  "INSERT CLIENT ID HERE",
			ClientKEY: "INSERT CLIENT KEY HERE",
		}
	}
	return File{
		Accounts: []AccountEntry{
			placeholder("Franchisee A"),
			placeholder("Franchisee B"),
			placeholder("Franchisee C"),
		},
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
