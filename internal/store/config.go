package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"weekboard/internal/calendar"
)

// Config is the user configuration kept in ~/.weekboard/config.json. Command-line
// flags and WEEKBOARD_* environment variables take precedence over it.
type Config struct {
	Convention     calendar.Convention `json:"convention"`
	TextDebounceMs int                 `json:"textDebounceMs,omitempty"`

	// DataDir holds the sqlite database. Defaults to <config dir>/data.
	DataDir string `json:"dataDir,omitempty"`

	// RemoteURL points the CLI and TUI at a weekboard server instead of the local db.
	RemoteURL string `json:"remoteUrl,omitempty"`

	RedisURL        string `json:"redisUrl,omitempty"`
	CacheTTLSeconds int    `json:"cacheTtlSeconds,omitempty"`

	ListenAddr string `json:"listenAddr,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`
	LogFile  string `json:"logFile,omitempty"`
}

const (
	defaultCacheTTL   = 5 * time.Minute
	defaultListenAddr = "127.0.0.1:7410"
)

func (c Config) TextDebounce() time.Duration {
	if c.TextDebounceMs <= 0 {
		return 0
	}
	return time.Duration(c.TextDebounceMs) * time.Millisecond
}

func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) Listen() string {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return defaultListenAddr
	}
	return c.ListenAddr
}

// ResolveDataDir returns DataDir, or the default under the config dir.
func (c Config) ResolveDataDir() (string, error) {
	if v := strings.TrimSpace(c.DataDir); v != "" {
		return v, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.weekboard).
	if v := strings.TrimSpace(os.Getenv("WEEKBOARD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".weekboard"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the config file. A missing file yields the zero Config.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename so a TUI and a CLI writing at once never leave a torn file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
