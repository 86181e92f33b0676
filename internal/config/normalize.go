package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIIIF()
	c.normalizeMETS()
	c.normalizeTextRepo()
	c.normalizeGenerate()
	c.normalizeServe()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.METSCacheDir) == "" {
		c.Paths.METSCacheDir = defaultMETSCacheDir
	}
	if c.Paths.METSCacheDir, err = expandPath(c.Paths.METSCacheDir); err != nil {
		return fmt.Errorf("paths.mets_cache_dir: %w", err)
	}
	if c.Paths.LedgerPath != "" {
		if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
			return fmt.Errorf("paths.ledger_path: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeIIIF() {
	c.IIIF.CollectionsBaseURL = normalizeBaseURL(c.IIIF.CollectionsBaseURL)
	c.IIIF.ManifestsBaseURL = normalizeBaseURL(c.IIIF.ManifestsBaseURL)
	c.IIIF.Rights = strings.TrimSpace(c.IIIF.Rights)
	if c.IIIF.Rights == "" {
		c.IIIF.Rights = defaultRights
	}
	c.IIIF.Language = strings.TrimSpace(c.IIIF.Language)
	if c.IIIF.Language == "" {
		c.IIIF.Language = defaultLanguage
	}
}

func (c *Config) normalizeMETS() {
	c.METS.BaseURL = normalizeBaseURL(c.METS.BaseURL)
	if c.METS.BaseURL == "" {
		c.METS.BaseURL = defaultMETSBaseURL
	}
	if c.METS.TimeoutSeconds <= 0 {
		c.METS.TimeoutSeconds = defaultMETSTimeoutSeconds
	}
	if c.METS.RequestsPerSecond <= 0 {
		c.METS.RequestsPerSecond = defaultMETSRequestsPerSec
	}
}

func (c *Config) normalizeTextRepo() {
	c.TextRepo.BaseURL = normalizeBaseURL(c.TextRepo.BaseURL)
	c.TextRepo.APIKey = strings.TrimSpace(c.TextRepo.APIKey)
	if c.TextRepo.TimeoutSeconds <= 0 {
		c.TextRepo.TimeoutSeconds = defaultTextRepoTimeout
	}
	if c.TextRepo.RequestsPerSecond <= 0 {
		c.TextRepo.RequestsPerSecond = defaultTextRepoRequestsPerSec
	}
}

func (c *Config) normalizeGenerate() {
	if c.Generate.Workers <= 0 {
		c.Generate.Workers = defaultWorkers
	}
}

func (c *Config) normalizeServe() {
	c.Serve.Bind = strings.TrimSpace(c.Serve.Bind)
	if c.Serve.Bind == "" {
		c.Serve.Bind = defaultServeBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeBaseURL trims the value and guarantees a single trailing slash
// so identifiers can be derived by plain concatenation.
func normalizeBaseURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return strings.TrimRight(value, "/") + "/"
}

// ExpandPath resolves a leading ~ to the user's home directory and makes
// the path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}
	return filepath.Abs(path)
}
