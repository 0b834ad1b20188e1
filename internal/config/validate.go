package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRestore(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRestore() error {
	switch c.Restore.Backend {
	case BackendExiftoolCLI, BackendExiftoolStayOpen:
	default:
		return fmt.Errorf("restore.backend must be %q or %q, got %q", BackendExiftoolCLI, BackendExiftoolStayOpen, c.Restore.Backend)
	}
	if c.Restore.TimeoutSeconds <= 0 {
		return errors.New("restore.timeout_seconds must be positive")
	}
	if err := ValidateCollisionPolicy(c.Restore.CollisionPolicy); err != nil {
		return err
	}
	return nil
}

// ValidateCollisionPolicy reports whether policy is a recognised collision policy.
func ValidateCollisionPolicy(policy string) error {
	switch policy {
	case CollisionWarn, CollisionFail:
		return nil
	default:
		return fmt.Errorf("restore.collision_policy must be %q or %q, got %q", CollisionWarn, CollisionFail, policy)
	}
}

func (c *Config) validateOutput() error {
	switch c.Output.UnicodeNormalization {
	case NormalizationNone, NormalizationNFC:
		return nil
	default:
		return fmt.Errorf("output.unicode_normalization must be %q or %q, got %q", NormalizationNone, NormalizationNFC, c.Output.UnicodeNormalization)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
}
