package reconcile

import (
	"path/filepath"
	"strings"

	"prismrestore/internal/services"
)

// ThumbnailSuffix is appended to the content identifier to name the largest
// cached rendition PhotoPrism keeps for an item.
const ThumbnailSuffix = "_2048x2048_fit.jpg"

const shardDepth = 3

// Location is the addressing information encoded in a sidecar's path.
type Location struct {
	// Shards holds the three ancestor directory names, outermost first.
	Shards [shardDepth]string
	// Identifier is the content identifier shared by sidecar and thumbnail.
	Identifier string
}

// ParseIdentifier extracts the content identifier from a sidecar filename:
// everything before the first "_", then everything before the first ".".
func ParseIdentifier(name string) (string, error) {
	stem, _, _ := strings.Cut(name, "_")
	stem, _, _ = strings.Cut(stem, ".")
	if stem == "" {
		return "", services.Wrap(services.ErrMalformedSidecarPath, "reconcile", "identifier", "empty identifier in "+name, nil)
	}
	return stem, nil
}

// ParseLocation derives the shard segments and identifier from sidecarPath.
// It requires at least three named ancestor directories.
func ParseLocation(sidecarPath string) (Location, error) {
	var loc Location

	identifier, err := ParseIdentifier(filepath.Base(sidecarPath))
	if err != nil {
		return Location{}, err
	}
	loc.Identifier = identifier

	dir := filepath.Dir(sidecarPath)
	for i := shardDepth - 1; i >= 0; i-- {
		name := filepath.Base(dir)
		parent := filepath.Dir(dir)
		if !isNamedDir(name) || parent == dir {
			return Location{}, services.Wrap(services.ErrMalformedSidecarPath, "reconcile", "shards", "fewer than three ancestor directories in "+sidecarPath, nil)
		}
		loc.Shards[i] = name
		dir = parent
	}
	return loc, nil
}

// ThumbnailPath composes the cached asset path for this location under cacheRoot.
func (l Location) ThumbnailPath(cacheRoot string) string {
	return filepath.Join(ThumbnailDir(cacheRoot), l.Shards[0], l.Shards[1], l.Shards[2], l.Identifier+ThumbnailSuffix)
}

// ThumbnailDir returns the directory beneath cacheRoot that holds cached assets.
func ThumbnailDir(cacheRoot string) string {
	return filepath.Join(cacheRoot, "cache", "thumbnails")
}

func isNamedDir(name string) bool {
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return false
	}
	return filepath.VolumeName(name) != name
}
