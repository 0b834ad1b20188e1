package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrDestinationExists is returned when a copy would replace an existing file.
var ErrDestinationExists = errors.New("destination already exists")

// Exists reports whether path names an existing filesystem entry. Errors other
// than "not exist" (permission denied, I/O) are returned to the caller.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// CopyFile streams src into a newly created dst with mode 0o644. It never
// replaces an existing dst.
func CopyFile(src, dst string) (int64, error) {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src into a newly created dst with the given mode.
func CopyFileMode(src, dst string, mode os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := createExclusive(dst, mode)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err == nil {
		err = out.Close()
	}
	if err != nil {
		removePartial(out, dst)
		return written, err
	}
	return written, nil
}

// CopyFileVerified streams src into a newly created dst with SHA256 + size
// integrity verification. Removes dst on mismatch.
func CopyFileVerified(src, dst string) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := createExclusive(dst, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err == nil {
		err = out.Close()
	}
	if err != nil {
		removePartial(out, dst)
		return written, err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return written, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return written, fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return written, nil
}

// removePartial drops a destination whose copy did not complete, so the next
// run copies it again instead of treating it as already materialized.
func removePartial(out *os.File, dst string) {
	_ = out.Close()
	_ = os.Remove(dst)
}

func createExclusive(path string, mode os.FileMode) (*os.File, error) {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrDestinationExists, path)
		}
		return nil, err
	}
	return out, nil
}
