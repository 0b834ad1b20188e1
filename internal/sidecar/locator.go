package sidecar

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"prismrestore/internal/services"
)

const sidecarExt = ".json"

// JSONDir returns the directory beneath cacheRoot that holds sidecars.
func JSONDir(cacheRoot string) string {
	return filepath.Join(cacheRoot, "cache", "json")
}

// Locate validates cacheRoot and returns a sequence over every sidecar file
// beneath {cacheRoot}/cache/json at any depth. Unreadable entries are yielded
// as errors tagged services.ErrTraversal and traversal continues.
func Locate(cacheRoot string) (iter.Seq2[string, error], error) {
	if err := requireDir(cacheRoot, "cache root"); err != nil {
		return nil, err
	}
	jsonDir := JSONDir(cacheRoot)
	if err := requireDir(jsonDir, "sidecar directory"); err != nil {
		return nil, err
	}

	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(jsonDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, services.Wrap(services.ErrTraversal, "locate", "read", path, err)) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() && path != jsonDir {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !IsSidecarName(d.Name()) {
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// IsSidecarName reports whether name matches the *.json sidecar pattern.
func IsSidecarName(name string) bool {
	return strings.HasSuffix(name, sidecarExt)
}

func requireDir(path, label string) error {
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrConfiguration, "locate", label, "path is empty", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "locate", label, path, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrConfiguration, "locate", label, path+" is not a directory", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "locate", label, path, err)
	}
	defer f.Close()
	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return services.Wrap(services.ErrConfiguration, "locate", label, path+" is unreadable", err)
	}
	return nil
}
