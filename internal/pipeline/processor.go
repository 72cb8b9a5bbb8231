// Package pipeline chains recognition, field extraction and normalization
// into a single pass that turns a notice image into a well-formed candidate.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
	"github.com/Korixo/demolition-tracker/internal/extract"
	"github.com/Korixo/demolition-tracker/internal/recognize"
)

// Processor runs the extraction pipeline. The recognizer may return plain
// text (OCR) or already-structured fields (multimodal); either way the
// output is a normalized candidate with every required field populated.
type Processor struct {
	logger     *slog.Logger
	recognizer recognize.Recognizer
	extractor  *extract.Extractor
	normalizer *extract.Normalizer
}

func NewProcessor(recognizer recognize.Recognizer, opts extract.Options, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger,
		recognizer: recognizer,
		extractor:  extract.NewExtractor(opts, logger),
		normalizer: extract.NewNormalizer(logger),
	}
}

// Process recognizes the image and produces a normalized candidate record.
func (p *Processor) Process(ctx context.Context, image []byte) (entity.CandidateRecord, error) {
	start := time.Now()

	res, err := p.recognizer.Recognize(ctx, image)
	if err != nil {
		return entity.CandidateRecord{}, common.WrapError(err, "recognize")
	}

	var cand entity.CandidateRecord
	if res.Fields != nil {
		// Structured recognition already did the field work; extraction
		// would only re-derive worse answers from the flattened text.
		cand = *res.Fields
		if strings.TrimSpace(cand.ExtractedText) == "" {
			cand.ExtractedText = res.Text
		}
		if strings.TrimSpace(cand.ExtractedText) == "" {
			return entity.CandidateRecord{}, common.ErrEmptyInput
		}
	} else {
		cand, err = p.extractor.Extract(res.Text)
		if err != nil {
			return entity.CandidateRecord{}, common.WrapError(err, "extract")
		}
	}

	normalized := p.normalizer.Normalize(cand)
	p.logger.Info("pipeline.processed",
		"building", normalized.BuildingName,
		"date", normalized.DemolitionDate,
		"structured", res.Fields != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return normalized, nil
}
