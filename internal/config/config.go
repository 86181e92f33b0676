package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir    string `toml:"output_dir"`
	METSCacheDir string `toml:"mets_cache_dir"`
	LedgerPath   string `toml:"ledger_path"`
	LogDir       string `toml:"log_dir"`
}

// IIIF contains settings for the generated Presentation resources.
type IIIF struct {
	CollectionsBaseURL string `toml:"collections_base_url"`
	ManifestsBaseURL   string `toml:"manifests_base_url"`
	Rights             string `toml:"rights"`
	Language           string `toml:"language"`
}

// METS contains configuration for the scan metadata service.
type METS struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ImageInfo contains configuration for IIIF Image API info.json lookups.
type ImageInfo struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// TextRepo contains configuration for the text repository service used by
// the CSV document mode.
type TextRepo struct {
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Generate contains knobs for the generation run itself.
type Generate struct {
	// Workers bounds the concurrent per-inventory manifest builds. The
	// hierarchy walk is always sequential.
	Workers int `toml:"workers"`
}

// Serve contains configuration for the local preview server.
type Serve struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for iiifgen.
type Config struct {
	Paths     Paths     `toml:"paths"`
	IIIF      IIIF      `toml:"iiif"`
	METS      METS      `toml:"mets"`
	ImageInfo ImageInfo `toml:"image_info"`
	TextRepo  TextRepo  `toml:"textrepo"`
	Generate  Generate  `toml:"generate"`
	Serve     Serve     `toml:"serve"`
	Logging   Logging   `toml:"logging"`
}

// envOverrides are applied after the TOML file so secrets and endpoints can
// live outside the config file.
type envOverrides struct {
	TextRepoURL    string `env:"TEXTREPO_API_URL"`
	TextRepoAPIKey string `env:"TEXTREPO_API_KEY"`
	METSBaseURL    string `env:"IIIFGEN_METS_BASE_URL"`
	OutputDir      string `env:"IIIFGEN_OUTPUT_DIR"`
	LogLevel       string `env:"IIIFGEN_LOG_LEVEL"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/iiifgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return
// value is the resolved config path; the third reports whether the file
// existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if overrides.TextRepoURL != "" {
		c.TextRepo.BaseURL = overrides.TextRepoURL
	}
	if overrides.TextRepoAPIKey != "" {
		c.TextRepo.APIKey = overrides.TextRepoAPIKey
	}
	if overrides.METSBaseURL != "" {
		c.METS.BaseURL = overrides.METSBaseURL
	}
	if overrides.OutputDir != "" {
		c.Paths.OutputDir = overrides.OutputDir
	}
	if overrides.LogLevel != "" {
		c.Logging.Level = overrides.LogLevel
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("iiifgen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample configuration to the given path, replacing
// any existing file. Callers decide when an existing file must be kept.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the directories the run needs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.METSCacheDir, c.Paths.LogDir}
	if c.Paths.LedgerPath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.LedgerPath))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
