// Package config loads, normalizes, and validates prismrestore configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PRISMRESTORE_EXIFTOOL
// environment override. The Config type centralizes every knob the restore
// pipeline and CLI need: where run state lives, which metadata backend to use,
// how destination collisions are treated, and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
