package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"prismrestore/internal/config"
	"prismrestore/internal/reconcile"
	"prismrestore/internal/sidecar"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not set"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckCacheLayout verifies that cacheRoot looks like a PhotoPrism storage
// directory. cache/json must be listable. A missing or unreadable
// cache/thumbnails is advisory: a pruned cache still runs, with every item
// reported as a missing thumbnail.
func CheckCacheLayout(cacheRoot string) []Result {
	thumbs := CheckDirectoryReadable("Thumbnail directory", reconcile.ThumbnailDir(cacheRoot))
	thumbs.Advisory = true
	return []Result{
		CheckDirectoryReadable("Sidecar directory", sidecar.JSONDir(cacheRoot)),
		thumbs,
	}
}

// CheckOutputRoot verifies that path is writable, or that it can be created
// under its nearest existing ancestor.
func CheckOutputRoot(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not set"}
	}
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	ancestor := filepath.Dir(filepath.Clean(path))
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	parent := CheckDirectoryAccess(name, ancestor)
	if !parent.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

func ledgerDir(cfg *config.Config) string {
	if strings.TrimSpace(cfg.Ledger.Path) == "" {
		return ""
	}
	return filepath.Dir(cfg.Ledger.Path)
}
