package exiftool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goexiftool "github.com/barasher/go-exiftool"

	"prismrestore/internal/services"
	"prismrestore/internal/sidecar"
)

// RecordReader loads a sidecar record. sidecar.ReadRecord is the default.
type RecordReader func(path string) (sidecar.Record, error)

// StayOpen writes sidecar fields through a long-lived exiftool process.
// The process is started lazily and replaced after a timeout, since a
// stalled exiftool cannot be interrupted mid-request.
type StayOpen struct {
	binary  string
	timeout time.Duration
	read    RecordReader

	mu sync.Mutex
	et *goexiftool.Exiftool
}

// NewStayOpen constructs a stay-open backend. The exiftool process is not
// started until the first Restore.
func NewStayOpen(binary string, timeoutSeconds int, read RecordReader) (*StayOpen, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	if read == nil {
		read = sidecar.ReadRecord
	}
	return &StayOpen{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		read:    read,
	}, nil
}

// Restore writes the sidecar's writable fields onto targetPath in place.
func (s *StayOpen) Restore(ctx context.Context, sidecarPath, targetPath string) error {
	record, err := s.read(sidecarPath)
	if err != nil {
		return err
	}
	fm, keys := FileMetadata(targetPath, record.Fields)
	if len(keys) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	et, err := s.process()
	if err != nil {
		return err
	}

	done := make(chan []goexiftool.FileMetadata, 1)
	go func() {
		batch := []goexiftool.FileMetadata{fm}
		et.WriteMetadata(batch)
		done <- batch
	}()

	var timer <-chan time.Time
	if s.timeout > 0 {
		t := time.NewTimer(s.timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case batch := <-done:
		if err := batch[0].Err; err != nil {
			return services.Wrap(services.ErrExternalTool, "restore", "exiftool stay-open", "write metadata", err)
		}
		return nil
	case <-timer:
		s.discard()
		return services.Wrap(services.ErrTimeout, "restore", "exiftool stay-open",
			fmt.Sprintf("no result after %s", s.timeout), nil)
	case <-ctx.Done():
		s.discard()
		return ctx.Err()
	}
}

// Close stops the exiftool process if one is running.
func (s *StayOpen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.et == nil {
		return nil
	}
	err := s.et.Close()
	s.et = nil
	return err
}

func (s *StayOpen) process() (*goexiftool.Exiftool, error) {
	if s.et != nil {
		return s.et, nil
	}
	et, err := goexiftool.NewExiftool(goexiftool.SetExiftoolBinaryPath(s.binary))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "restore", "exiftool stay-open", "start exiftool", err)
	}
	s.et = et
	return et, nil
}

// discard abandons the current process after an interrupted request. Close
// runs in the background because it waits on the stalled request.
func (s *StayOpen) discard() {
	if s.et == nil {
		return
	}
	et := s.et
	s.et = nil
	go func() { _ = et.Close() }()
}
