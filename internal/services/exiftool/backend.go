package exiftool

import (
	"fmt"

	"prismrestore/internal/config"
	"prismrestore/internal/services"
)

// Backend is a Restorer that may hold a process open until closed.
type Backend interface {
	services.Restorer
	Close() error
}

// Open builds the metadata backend named by cfg.Restore.Backend.
func Open(cfg *config.Config) (Backend, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "restore", "select backend", "config is required", nil)
	}
	binary := cfg.ExiftoolBinary()
	switch cfg.Restore.Backend {
	case config.BackendExiftoolStayOpen:
		stayOpen, err := NewStayOpen(binary, cfg.Restore.TimeoutSeconds, nil)
		if err != nil {
			return nil, err
		}
		return stayOpen, nil
	case config.BackendExiftoolCLI, "":
		cli, err := NewCLI(binary, cfg.Restore.TimeoutSeconds)
		if err != nil {
			return nil, err
		}
		return cli, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "restore", "select backend",
			fmt.Sprintf("unknown backend %q", cfg.Restore.Backend), nil)
	}
}

// Close is a no-op; CLI holds no process between calls.
func (c *CLI) Close() error {
	return nil
}
