package materialize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"prismrestore/internal/config"
	"prismrestore/internal/ledger"
	"prismrestore/internal/media/exifinfo"
	"prismrestore/internal/reconcile"
	"prismrestore/internal/services"
)

type fakeRestorer struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (f *fakeRestorer) Restore(_ context.Context, sidecarPath, targetPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{sidecarPath, targetPath})
	return f.err
}

type memoryLedger struct {
	entries map[string]ledger.Entry
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{entries: make(map[string]ledger.Entry)}
}

func (l *memoryLedger) Lookup(_ context.Context, destination string) (ledger.Entry, bool, error) {
	entry, ok := l.entries[destination]
	return entry, ok, nil
}

func (l *memoryLedger) Record(_ context.Context, entry ledger.Entry) error {
	if entry.RestoreStatus == "" {
		entry.RestoreStatus = ledger.RestorePending
	}
	l.entries[entry.Destination] = entry
	return nil
}

func (l *memoryLedger) SetRestoreResult(_ context.Context, destination string, result ledger.RestoreResult) error {
	entry := l.entries[destination]
	entry.RestoreStatus = result.Status
	entry.RestoreError = result.Error
	entry.ExifModel = result.ExifModel
	l.entries[destination] = entry
	return nil
}

func newItem(t *testing.T, withThumbnail bool) reconcile.Item {
	t.Helper()
	cache := t.TempDir()
	out := t.TempDir()
	thumb := filepath.Join(cache, "cache", "thumbnails", "a", "b", "c", "abc_2048x2048_fit.jpg")
	if withThumbnail {
		if err := os.MkdirAll(filepath.Dir(thumb), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(thumb, []byte("jpeg-bytes"), 0o644); err != nil {
			t.Fatalf("write thumbnail: %v", err)
		}
	}
	return reconcile.Item{
		SidecarPath:     filepath.Join(cache, "cache", "json", "a", "b", "c", "abc_thumb.json"),
		ThumbnailPath:   thumb,
		DestinationPath: filepath.Join(out, "2019", "beach.jpg"),
		Identifier:      "abc",
		SourceFile:      "/photos/2019/beach.jpg",
	}
}

func TestMaterializeCopiesAndRestores(t *testing.T) {
	item := newItem(t, true)
	restorer := &fakeRestorer{}
	store := newMemoryLedger()
	m := New(restorer, WithLedger(store), WithVerifiedCopies(true))

	report := m.Materialize(context.Background(), item)
	if report.Outcome != OutcomeMaterialized {
		t.Fatalf("outcome mismatch: got %q want %q (err %v)", report.Outcome, OutcomeMaterialized, report.Err)
	}
	if report.Bytes != int64(len("jpeg-bytes")) {
		t.Fatalf("bytes mismatch: got %d", report.Bytes)
	}
	data, err := os.ReadFile(item.DestinationPath)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("content mismatch: got %q", data)
	}
	if len(restorer.calls) != 1 || restorer.calls[0] != [2]string{item.SidecarPath, item.DestinationPath} {
		t.Fatalf("unexpected restore calls: %v", restorer.calls)
	}
	entry := store.entries[item.DestinationPath]
	if entry.Identifier != "abc" || entry.RestoreStatus != ledger.RestoreDone {
		t.Fatalf("unexpected ledger entry: %#v", entry)
	}
}

func TestMaterializeMissingThumbnailCreatesNothing(t *testing.T) {
	item := newItem(t, false)
	restorer := &fakeRestorer{}
	m := New(restorer)

	report := m.Materialize(context.Background(), item)
	if report.Outcome != OutcomeMissingThumbnail {
		t.Fatalf("outcome mismatch: got %q", report.Outcome)
	}
	if _, err := os.Stat(filepath.Dir(item.DestinationPath)); !os.IsNotExist(err) {
		t.Fatalf("expected no destination directory, stat err %v", err)
	}
	if len(restorer.calls) != 0 {
		t.Fatalf("restorer should not run, got %v", restorer.calls)
	}
}

func TestMaterializeExistingDestinationIsNotOverwritten(t *testing.T) {
	item := newItem(t, true)
	if err := os.MkdirAll(filepath.Dir(item.DestinationPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(item.DestinationPath, []byte("original"), 0o644); err != nil {
		t.Fatalf("write destination: %v", err)
	}
	restorer := &fakeRestorer{}
	m := New(restorer)

	report := m.Materialize(context.Background(), item)
	if report.Outcome != OutcomeAlreadyMaterialized {
		t.Fatalf("outcome mismatch: got %q", report.Outcome)
	}
	data, _ := os.ReadFile(item.DestinationPath)
	if string(data) != "original" {
		t.Fatalf("destination overwritten: %q", data)
	}
	if len(restorer.calls) != 0 {
		t.Fatalf("restorer should not run for existing destination")
	}
}

func TestMaterializeTwiceCopiesOnce(t *testing.T) {
	item := newItem(t, true)
	restorer := &fakeRestorer{}
	store := newMemoryLedger()
	m := New(restorer, WithLedger(store))

	first := m.Materialize(context.Background(), item)
	second := m.Materialize(context.Background(), item)
	if first.Outcome != OutcomeMaterialized || second.Outcome != OutcomeAlreadyMaterialized {
		t.Fatalf("unexpected outcomes: %q then %q", first.Outcome, second.Outcome)
	}
	if len(restorer.calls) != 1 {
		t.Fatalf("expected one restore call, got %d", len(restorer.calls))
	}
}

func TestMaterializeRestoreFailureIsSoft(t *testing.T) {
	item := newItem(t, true)
	restorer := &fakeRestorer{err: services.Wrap(services.ErrExternalTool, "restore", "exiftool", "exit status 1", nil)}
	store := newMemoryLedger()
	m := New(restorer, WithLedger(store))

	report := m.Materialize(context.Background(), item)
	if report.Outcome != OutcomeMaterialized {
		t.Fatalf("outcome mismatch: got %q", report.Outcome)
	}
	if !errors.Is(report.RestoreErr, services.ErrExternalTool) {
		t.Fatalf("expected restore error, got %v", report.RestoreErr)
	}
	if report.Err != nil {
		t.Fatalf("restore failure must not set Err: %v", report.Err)
	}
	if _, err := os.Stat(item.DestinationPath); err != nil {
		t.Fatalf("copy should be kept: %v", err)
	}
	if entry := store.entries[item.DestinationPath]; entry.RestoreStatus != ledger.RestoreFailed || entry.RestoreError == "" {
		t.Fatalf("expected failed restore in ledger, got %#v", entry)
	}
}

func TestMaterializeCollision(t *testing.T) {
	for _, policy := range []string{config.CollisionWarn, config.CollisionFail} {
		t.Run(policy, func(t *testing.T) {
			item := newItem(t, true)
			store := newMemoryLedger()
			m := New(&fakeRestorer{}, WithLedger(store), WithCollisionPolicy(policy))
			if report := m.Materialize(context.Background(), item); report.Outcome != OutcomeMaterialized {
				t.Fatalf("first outcome: got %q", report.Outcome)
			}

			other := item
			other.Identifier = "zzz"
			other.SidecarPath = filepath.Join(filepath.Dir(item.SidecarPath), "zzz_thumb.json")
			report := m.Materialize(context.Background(), other)
			if report.Outcome != OutcomeCollision {
				t.Fatalf("outcome mismatch: got %q", report.Outcome)
			}
			if report.ClaimedBy != "abc" {
				t.Fatalf("claimed by mismatch: got %q", report.ClaimedBy)
			}
			if policy == config.CollisionFail && !errors.Is(report.Err, services.ErrCollision) {
				t.Fatalf("expected ErrCollision under fail policy, got %v", report.Err)
			}
			if policy == config.CollisionWarn && report.Err != nil {
				t.Fatalf("warn policy should not set Err: %v", report.Err)
			}
		})
	}
}

func TestMaterializeDryRunTouchesNothing(t *testing.T) {
	item := newItem(t, true)
	restorer := &fakeRestorer{}
	m := New(restorer, WithDryRun(true))

	report := m.Materialize(context.Background(), item)
	if report.Outcome != OutcomePlanned {
		t.Fatalf("outcome mismatch: got %q", report.Outcome)
	}
	if _, err := os.Stat(filepath.Dir(item.DestinationPath)); !os.IsNotExist(err) {
		t.Fatalf("dry run created output: %v", err)
	}
	if len(restorer.calls) != 0 {
		t.Fatal("dry run should not restore")
	}
}

func TestRestoreReadsExifSummary(t *testing.T) {
	store := newMemoryLedger()
	taken := time.Date(2019, 7, 4, 12, 0, 0, 0, time.UTC)
	m := New(&fakeRestorer{}, WithLedger(store), WithExifReader(func(string) (exifinfo.Info, error) {
		return exifinfo.Info{TakenAt: taken, Make: "Google", Model: "Pixel 3"}, nil
	}))
	store.entries["/out/a.jpg"] = ledger.Entry{Destination: "/out/a.jpg", RestoreStatus: ledger.RestoreFailed}

	info, err := m.Restore(context.Background(), "/s.json", "/out/a.jpg")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !info.TakenAt.Equal(taken) {
		t.Fatalf("taken mismatch: got %v", info.TakenAt)
	}
	entry := store.entries["/out/a.jpg"]
	if entry.RestoreStatus != ledger.RestoreDone || entry.ExifModel != "Google Pixel 3" {
		t.Fatalf("unexpected ledger entry: %#v", entry)
	}
}

func TestRestoreWithoutRestorerIsSkipped(t *testing.T) {
	store := newMemoryLedger()
	m := New(nil, WithLedger(store))
	if _, err := m.Restore(context.Background(), "/s.json", "/out/a.jpg"); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if store.entries["/out/a.jpg"].RestoreStatus != ledger.RestoreSkipped {
		t.Fatalf("expected skipped status, got %#v", store.entries["/out/a.jpg"])
	}
}
