package config_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/derickschaefer/franq/internal/config"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func writeConfig(t *testing.T, dir string, f config.File) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FRANQ_BASE_URL", "FRANQ_TIMEOUT", "FRANQ_CONCURRENCY", "FRANQ_LOG_FILE", "FRANQ_DB_PATH"} {
		t.Setenv(k, "") // register restore of any ambient value
		os.Unsetenv(k)
	}
}

func oneAccount() config.File {
	return config.File{
		Accounts: []config.AccountEntry{
			{Name: "Franchisee A", ClientID: "id-a", ClientKEY: "key-a"},
		},
	}
}

// ─── Missing config ───────────────────────────────────────────────────────────

func TestLoadMissingFileWritesTemplateAndHalts(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected setup-required error")
	}
	var setup *config.SetupRequiredError
	if !errors.As(err, &setup) {
		t.Fatalf("expected *SetupRequiredError, got %T: %v", err, err)
	}

	data, rerr := os.ReadFile(path)
	if rerr != nil {
		t.Fatalf("template was not written: %v", rerr)
	}
	var f config.File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("template is not valid JSON: %v", err)
	}
	if len(f.Accounts) != 3 {
		t.Errorf("template should hold 3 placeholder accounts, got %d", len(f.Accounts))
	}
	for _, a := range f.Accounts {
		if !strings.Contains(a.ClientID, "INSERT") {
			t.Errorf("placeholder ClientID expected, got %q", a.ClientID)
		}
	}
}

// ─── Defaults and file values ─────────────────────────────────────────────────

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), oneAccount())

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout: expected %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.Concurrency != config.DefaultConcurrency {
		t.Errorf("Concurrency: expected %d, got %d", config.DefaultConcurrency, cfg.Concurrency)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL: expected default, got %q", cfg.BaseURL)
	}
	if cfg.LogFile != config.DefaultLogFile {
		t.Errorf("LogFile: expected default, got %q", cfg.LogFile)
	}
	if cfg.ConfigPath != path {
		t.Errorf("ConfigPath: expected %q, got %q", path, cfg.ConfigPath)
	}
	if len(cfg.Accounts) != 1 || cfg.Accounts[0].Name != "Franchisee A" {
		t.Errorf("accounts not loaded: %+v", cfg.Accounts)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	clearEnv(t)
	f := oneAccount()
	f.BaseURL = "https://stage.example.com"
	f.Timeout = "30s"
	f.Concurrency = 4
	f.LogFile = "diag.log"
	path := writeConfig(t, t.TempDir(), f)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://stage.example.com" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout: got %v", cfg.Timeout)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency: got %d", cfg.Concurrency)
	}
	if cfg.LogFile != "diag.log" {
		t.Errorf("LogFile: got %q", cfg.LogFile)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	f := oneAccount()
	f.Concurrency = 4
	path := writeConfig(t, t.TempDir(), f)

	t.Setenv("FRANQ_CONCURRENCY", "2")
	t.Setenv("FRANQ_TIMEOUT", "5s")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("env should win over file: got %d", cfg.Concurrency)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout from env: got %v", cfg.Timeout)
	}
}

func TestLoadEmptyEnvTreatedAsUnset(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), oneAccount())

	// Exported but empty: operators do this to "comment out" an override.
	t.Setenv("FRANQ_TIMEOUT", "")
	t.Setenv("FRANQ_CONCURRENCY", "")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("empty env vars must not be fatal: %v", err)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout: expected default %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.Concurrency != config.DefaultConcurrency {
		t.Errorf("Concurrency: expected default %d, got %d", config.DefaultConcurrency, cfg.Concurrency)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

// ─── Validation ───────────────────────────────────────────────────────────────

func TestValidateNoAccounts(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), config.File{})
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero accounts")
	}
}

func TestValidateEntry(t *testing.T) {
	good := config.AccountEntry{Name: "A", ClientID: "id", ClientKEY: "key"}
	if err := config.ValidateEntry(good); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}
	bad := []config.AccountEntry{
		{ClientID: "id", ClientKEY: "key"},
		{Name: "A", ClientKEY: "key"},
		{Name: "A", ClientID: "id"},
	}
	for i, e := range bad {
		if err := config.ValidateEntry(e); err == nil {
			t.Errorf("entry %d: expected error for missing field", i)
		}
	}
}

func TestRedact(t *testing.T) {
	if got := config.Redact("abcdefgh"); got != "ab****gh" {
		t.Errorf("Redact: got %q", got)
	}
	if got := config.Redact("ab"); got != "****" {
		t.Errorf("Redact short: got %q", got)
	}
}
