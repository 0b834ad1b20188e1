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
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeRestore()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLedger() error {
	var err error
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = filepath.Join(c.Paths.StateDir, "ledger.db")
	}
	if c.Ledger.Path, err = expandPath(c.Ledger.Path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRestore() {
	c.Restore.Backend = strings.ToLower(strings.TrimSpace(c.Restore.Backend))
	if c.Restore.Backend == "" {
		c.Restore.Backend = BackendExiftoolCLI
	}
	c.Restore.ExiftoolBinary = strings.TrimSpace(c.Restore.ExiftoolBinary)
	if value, ok := os.LookupEnv("PRISMRESTORE_EXIFTOOL"); ok && strings.TrimSpace(value) != "" {
		c.Restore.ExiftoolBinary = strings.TrimSpace(value)
	}
	if c.Restore.ExiftoolBinary == "" {
		c.Restore.ExiftoolBinary = defaultExiftoolBinary
	}
	if c.Restore.TimeoutSeconds == 0 {
		c.Restore.TimeoutSeconds = defaultRestoreTimeout
	}
	c.Restore.CollisionPolicy = strings.ToLower(strings.TrimSpace(c.Restore.CollisionPolicy))
	if c.Restore.CollisionPolicy == "" {
		c.Restore.CollisionPolicy = CollisionWarn
	}
}

func (c *Config) normalizeOutput() {
	c.Output.UnicodeNormalization = strings.ToLower(strings.TrimSpace(c.Output.UnicodeNormalization))
	if c.Output.UnicodeNormalization == "" {
		c.Output.UnicodeNormalization = NormalizationNone
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
