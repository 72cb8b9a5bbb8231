// Package reconcile owns the human confirmation step between extraction and
// the record store. One workflow handles one upload at a time: candidates go
// through Reviewing and only land in the store on an explicit Confirm.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/constants"
	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
	"github.com/Korixo/demolition-tracker/internal/extract"
	"github.com/Korixo/demolition-tracker/internal/imagestore"
	"github.com/Korixo/demolition-tracker/internal/pipeline"
	"github.com/Korixo/demolition-tracker/internal/repository"
)

// Workflow serializes uploads and reviews. The generation counter lets a
// Cancel issued during recognition discard the in-flight result instead of
// surfacing a stale candidate.
type Workflow struct {
	logger    *slog.Logger
	processor *pipeline.Processor
	store     repository.RecordStore
	images    imagestore.ImageStore // nil disables image persistence

	mu      sync.Mutex
	state   constants.SessionState
	session *entity.ReconciliationSession
	gen     uint64
}

func NewWorkflow(processor *pipeline.Processor, store repository.RecordStore, images imagestore.ImageStore, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		logger:    logger,
		processor: processor,
		store:     store,
		images:    images,
		state:     constants.SessionIdle,
	}
}

// State reports the current workflow state.
func (w *Workflow) State() constants.SessionState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Session returns a copy of the active session, or nil when none exists.
func (w *Workflow) Session() *entity.ReconciliationSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Clone()
}

// Begin validates and processes an upload, leaving the workflow in
// Reviewing with a candidate on success. A non-nil targetID puts the
// session in update mode against that record. Rejected outright with
// ErrReviewInProgress while another upload or review is active.
func (w *Workflow) Begin(ctx context.Context, image []byte, targetID *uuid.UUID) (*entity.ReconciliationSession, error) {
	contentType, err := imagestore.ValidatePayload(image)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.state != constants.SessionIdle {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: state %s", common.ErrReviewInProgress, w.state)
	}
	w.state = constants.SessionUploading
	w.gen++
	myGen := w.gen
	w.mu.Unlock()

	session, err := w.process(ctx, image, contentType, targetID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != myGen {
		// Canceled while recognition was in flight; the result is stale.
		w.logger.Info("reconcile.stale_upload_discarded", "gen", myGen)
		return nil, fmt.Errorf("%w: upload canceled", common.ErrNoActiveSession)
	}
	if err != nil {
		w.state = constants.SessionIdle
		return nil, err
	}

	w.state = constants.SessionReviewing
	w.session = session
	w.logger.Info("reconcile.reviewing",
		"mode", session.Mode,
		"building", session.Candidate.BuildingName,
		"date", session.Candidate.DemolitionDate,
	)
	return session.Clone(), nil
}

// process runs outside the lock: target lookup, image persistence and the
// recognition pipeline can all block.
func (w *Workflow) process(ctx context.Context, image []byte, contentType string, targetID *uuid.UUID) (*entity.ReconciliationSession, error) {
	mode := constants.ModeNew
	if targetID != nil {
		if _, err := w.store.Get(ctx, *targetID); err != nil {
			return nil, fmt.Errorf("update target: %w", err)
		}
		mode = constants.ModeUpdate
	}

	var imageURL *string
	if w.images != nil {
		url, err := w.images.Put(ctx, contentType, image)
		if err != nil {
			// The image link is a convenience; extraction still proceeds.
			w.logger.Warn("reconcile.image_store_failed", "error", err)
		} else {
			imageURL = &url
		}
	}

	cand, err := w.processor.Process(ctx, image)
	if err != nil {
		return nil, err
	}

	id := targetID
	if id != nil {
		v := *id
		id = &v
	}
	return &entity.ReconciliationSession{
		Mode:      mode,
		TargetID:  id,
		Candidate: cand,
		ImageURL:  imageURL,
		StartedAt: time.Now().UTC(),
	}, nil
}

// Edit adjusts the candidate while the session is in Reviewing. Only fields
// with non-nil pointers change; the extracted text is read-only evidence.
type Edit struct {
	OwnerName      *string
	BuildingName   *string
	Location       *string
	DemolitionDate *time.Time
	Notes          *string
}

func (w *Workflow) Edit(edit Edit) (*entity.ReconciliationSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != constants.SessionReviewing || w.session == nil {
		return nil, common.ErrNoActiveSession
	}

	if edit.BuildingName != nil {
		name := strings.TrimSpace(*edit.BuildingName)
		if name == "" {
			return nil, fmt.Errorf("%w: building name cannot be empty", common.ErrValidation)
		}
		w.session.Candidate.BuildingName = name
	}
	if edit.OwnerName != nil {
		w.session.Candidate.OwnerName = presentOrNil(*edit.OwnerName)
	}
	if edit.Location != nil {
		w.session.Candidate.Location = presentOrNil(*edit.Location)
	}
	if edit.DemolitionDate != nil {
		if edit.DemolitionDate.IsZero() {
			return nil, fmt.Errorf("%w: demolition date cannot be zero", common.ErrValidation)
		}
		w.session.Candidate.DemolitionDate = *edit.DemolitionDate
	}
	if edit.Notes != nil {
		w.session.Notes = presentOrNil(*edit.Notes)
	}
	return w.session.Clone(), nil
}

// Confirm commits the reviewed candidate to the store. The session is taken
// before the store call so a second Confirm racing the first finds no
// session; if the store fails, the session is restored for another attempt.
func (w *Workflow) Confirm(ctx context.Context) (entity.DemolitionRecord, error) {
	w.mu.Lock()
	if w.state != constants.SessionReviewing || w.session == nil {
		w.mu.Unlock()
		return entity.DemolitionRecord{}, common.ErrNoActiveSession
	}
	session := w.session
	myGen := w.gen
	w.session = nil
	w.state = constants.SessionIdle
	w.mu.Unlock()

	rec, err := w.commit(ctx, session)
	if err != nil {
		w.mu.Lock()
		if w.gen == myGen && w.state == constants.SessionIdle {
			// Nothing else started in the meantime; keep the review alive.
			w.session = session
			w.state = constants.SessionReviewing
		}
		w.mu.Unlock()
		w.logger.Error("reconcile.confirm_failed", "error", err)
		return entity.DemolitionRecord{}, err
	}

	w.logger.Info("reconcile.confirmed", "record_id", rec.ID, "mode", session.Mode)
	return rec, nil
}

func (w *Workflow) commit(ctx context.Context, session *entity.ReconciliationSession) (entity.DemolitionRecord, error) {
	cand := session.Candidate

	if session.Mode == constants.ModeUpdate && session.TargetID != nil {
		req := repository.UpdateRecordRequest{
			OwnerName:      cand.OwnerName,
			Location:       cand.Location,
			DemolitionDate: &cand.DemolitionDate,
			ImageURL:       session.ImageURL,
			Notes:          session.Notes,
		}
		// A sentinel building name means extraction found nothing; do not
		// overwrite what the record already has.
		if cand.BuildingName != "" && cand.BuildingName != extract.UnknownBuilding {
			name := cand.BuildingName
			req.BuildingName = &name
		}
		if cand.ExtractedText != "" {
			text := cand.ExtractedText
			req.ExtractedText = &text
		}
		return w.store.Update(ctx, *session.TargetID, req)
	}

	req := repository.CreateRecordRequest{
		OwnerName:      cand.OwnerName,
		BuildingName:   cand.BuildingName,
		Location:       cand.Location,
		DemolitionDate: cand.DemolitionDate,
		ImageURL:       session.ImageURL,
		Notes:          session.Notes,
	}
	if cand.ExtractedText != "" {
		text := cand.ExtractedText
		req.ExtractedText = &text
	}
	return w.store.Create(ctx, req)
}

// Reject discards the candidate without touching the store.
func (w *Workflow) Reject() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != constants.SessionReviewing || w.session == nil {
		return common.ErrNoActiveSession
	}
	w.logger.Info("reconcile.rejected", "building", w.session.Candidate.BuildingName)
	w.session = nil
	w.state = constants.SessionIdle
	return nil
}

// Cancel aborts whatever is active: a review is discarded, an in-flight
// upload is invalidated so its result is dropped on arrival. Idle is a
// no-op.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == constants.SessionIdle {
		return
	}
	w.logger.Info("reconcile.canceled", "state", w.state)
	w.gen++
	w.session = nil
	w.state = constants.SessionIdle
}

func presentOrNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
