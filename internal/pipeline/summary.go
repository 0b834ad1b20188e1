package pipeline

import (
	"time"

	"prismrestore/internal/materialize"
)

// Summary folds every item outcome of a run.
type Summary struct {
	RunID               string
	Sidecars            int
	Materialized        int
	AlreadyMaterialized int
	MissingThumbnails   int
	Collisions          int
	Planned             int
	Failed              int
	Malformed           int
	TraversalErrors     int
	RestoreWarnings     int
	BytesCopied         int64
	Duration            time.Duration
}

// Skipped returns the number of items that produced no new file.
func (s Summary) Skipped() int {
	return s.AlreadyMaterialized + s.MissingThumbnails + s.Collisions + s.Malformed + s.Failed
}

func (s *Summary) add(report materialize.Report) {
	switch report.Outcome {
	case materialize.OutcomeMaterialized:
		s.Materialized++
		s.BytesCopied += report.Bytes
		if report.RestoreErr != nil {
			s.RestoreWarnings++
		}
	case materialize.OutcomeAlreadyMaterialized:
		s.AlreadyMaterialized++
	case materialize.OutcomeMissingThumbnail:
		s.MissingThumbnails++
	case materialize.OutcomeCollision:
		s.Collisions++
	case materialize.OutcomePlanned:
		s.Planned++
	case materialize.OutcomeFailed:
		s.Failed++
	}
}
