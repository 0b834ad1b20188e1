package materialize

import (
	"prismrestore/internal/media/exifinfo"
	"prismrestore/internal/reconcile"
)

// Outcome classifies what happened to one item.
type Outcome string

const (
	// OutcomeMaterialized means the thumbnail was copied to the destination.
	OutcomeMaterialized Outcome = "materialized"
	// OutcomeAlreadyMaterialized means the destination existed and was left alone.
	OutcomeAlreadyMaterialized Outcome = "already_materialized"
	// OutcomeMissingThumbnail means the cached asset does not exist.
	OutcomeMissingThumbnail Outcome = "missing_thumbnail"
	// OutcomeCollision means the destination belongs to a different identifier.
	OutcomeCollision Outcome = "collision"
	// OutcomePlanned means a dry run would have copied this item.
	OutcomePlanned Outcome = "planned"
	// OutcomeFailed means the copy did not complete.
	OutcomeFailed Outcome = "failed"
)

// Report describes the result of materializing one item.
type Report struct {
	Item    reconcile.Item
	Outcome Outcome
	Bytes   int64
	// RestoreErr is set when the copy succeeded but metadata restoration did not.
	RestoreErr error
	// Err is set for OutcomeFailed, and for OutcomeCollision under the fail policy.
	Err error
	// ClaimedBy is the identifier the ledger holds for a colliding destination.
	ClaimedBy string
	Exif      exifinfo.Info
}

// Copied reports whether this item produced a new file.
func (r Report) Copied() bool {
	return r.Outcome == OutcomeMaterialized
}
