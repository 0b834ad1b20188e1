package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Cache builds a PhotoPrism-style storage directory for tests.
type Cache struct {
	t    testing.TB
	Root string
}

// NewCache creates an empty storage directory with cache/json and
// cache/thumbnails in place.
func NewCache(t testing.TB) *Cache {
	t.Helper()
	c := &Cache{t: t, Root: t.TempDir()}
	for _, dir := range []string{"json", "thumbnails"} {
		if err := os.MkdirAll(filepath.Join(c.Root, "cache", dir), 0o755); err != nil {
			t.Fatalf("mkdir cache/%s: %v", dir, err)
		}
	}
	return c
}

// SidecarPath returns where the sidecar for identifier lives under shards.
func (c *Cache) SidecarPath(shards [3]string, identifier string) string {
	return filepath.Join(c.Root, "cache", "json", shards[0], shards[1], shards[2], identifier+"_exiftool.json")
}

// ThumbnailPath returns where the 2048px thumbnail for identifier lives.
func (c *Cache) ThumbnailPath(shards [3]string, identifier string) string {
	return filepath.Join(c.Root, "cache", "thumbnails", shards[0], shards[1], shards[2], identifier+"_2048x2048_fit.jpg")
}

// AddSidecar writes a one-record sidecar whose SourceFile is sourceFile.
func (c *Cache) AddSidecar(shards [3]string, identifier, sourceFile string) string {
	c.t.Helper()
	return c.AddRawSidecar(shards, identifier+"_exiftool.json",
		fmt.Sprintf(`[{"SourceFile": %q, "Make": "Canon", "DateTimeOriginal": "2009:11:27 10:00:00"}]`, sourceFile))
}

// AddRawSidecar writes name under shards with arbitrary content.
func (c *Cache) AddRawSidecar(shards [3]string, name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.Root, "cache", "json", shards[0], shards[1], shards[2], name)
	writeBytes(c.t, path, []byte(content))
	return path
}

// AddThumbnail writes the thumbnail for identifier with content
// "jpeg:<identifier>".
func (c *Cache) AddThumbnail(shards [3]string, identifier string) string {
	c.t.Helper()
	path := c.ThumbnailPath(shards, identifier)
	writeBytes(c.t, path, []byte("jpeg:"+identifier))
	return path
}

// AddPhoto writes a sidecar and, when withThumbnail, its thumbnail.
func (c *Cache) AddPhoto(shards [3]string, identifier, sourceFile string, withThumbnail bool) {
	c.t.Helper()
	c.AddSidecar(shards, identifier, sourceFile)
	if withThumbnail {
		c.AddThumbnail(shards, identifier)
	}
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	writeBytes(t, path, buf)
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
