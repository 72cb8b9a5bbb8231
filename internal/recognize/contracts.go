// Package recognize turns notice images into text, and optionally into
// pre-structured candidate fields when the engine is multimodal.
package recognize

import (
	"context"

	"github.com/Korixo/demolition-tracker/internal/entity"
)

// Result is what a recognition engine produced for one image.
type Result struct {
	// Text is the full recognized text blob; may be empty, in which case
	// downstream extraction fails with ErrEmptyInput.
	Text string

	// Fields is set by multimodal engines that extract candidate fields
	// directly from the image. When non-nil the field extractor step is
	// bypassed; normalization still runs.
	Fields *entity.CandidateRecord
}

// Recognizer is the pluggable text recognition capability. Recognition is
// the only long-running call in the pipeline, so implementations must honor
// ctx cancellation.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
}
