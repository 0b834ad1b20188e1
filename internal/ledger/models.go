package ledger

import "time"

// RestoreStatus tracks metadata restoration for a materialized file.
type RestoreStatus string

const (
	// RestorePending is recorded between the copy and the restore attempt. An
	// entry left pending means the run stopped in between.
	RestorePending RestoreStatus = "pending"
	// RestoreDone means metadata was written back successfully.
	RestoreDone RestoreStatus = "restored"
	// RestoreFailed means the restore tool reported an error.
	RestoreFailed RestoreStatus = "failed"
	// RestoreSkipped is recorded for dry runs and disabled restoration.
	RestoreSkipped RestoreStatus = "skipped"
)

// Entry is one materialized destination.
type Entry struct {
	Destination   string
	Identifier    string
	Sidecar       string
	Thumbnail     string
	SourceFile    string
	SizeBytes     int64
	RunID         string
	RestoreStatus RestoreStatus
	RestoreError  string
	ExifTakenAt   time.Time
	ExifModel     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NeedsRestore reports whether restoration should be attempted again.
func (e Entry) NeedsRestore() bool {
	return e.RestoreStatus == RestoreFailed || e.RestoreStatus == RestorePending
}
