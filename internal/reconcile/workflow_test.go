package reconcile

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Korixo/demolition-tracker/constants"
	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
	"github.com/Korixo/demolition-tracker/internal/extract"
	"github.com/Korixo/demolition-tracker/internal/pipeline"
	"github.com/Korixo/demolition-tracker/internal/recognize"
	"github.com/Korixo/demolition-tracker/internal/repository"
)

var pngImage = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0}, 64)...)

type textRecognizer struct {
	text string
	err  error
}

func (r textRecognizer) Recognize(context.Context, []byte) (recognize.Result, error) {
	if r.err != nil {
		return recognize.Result{}, r.err
	}
	return recognize.Result{Text: r.text}, nil
}

func newTestWorkflow(t *testing.T, text string) (*Workflow, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	proc := pipeline.NewProcessor(textRecognizer{text: text}, extract.Options{}, nil)
	return NewWorkflow(proc, store, nil, nil), store
}

func strPtr(s string) *string { return &s }

func TestBeginConfirmCreatesRecord(t *testing.T) {
	ctx := context.Background()
	wf, store := newTestWorkflow(t,
		"Building: Storage Silo\nOwner: Sarah Parker\nDemolition scheduled for 15/03/2024")

	session, err := wf.Begin(ctx, pngImage, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.SessionReviewing, wf.State())
	assert.Equal(t, constants.ModeNew, session.Mode)
	assert.Equal(t, "Storage Silo", session.Candidate.BuildingName)

	rec, err := wf.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, constants.SessionIdle, wf.State())
	assert.Nil(t, wf.Session())
	assert.Equal(t, "Storage Silo", rec.BuildingName)
	require.NotNil(t, rec.OwnerName)
	assert.Equal(t, "Sarah Parker", *rec.OwnerName)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), rec.DemolitionDate)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestUpdateModeLeavesUnextractedFieldsAlone(t *testing.T) {
	ctx := context.Background()
	wf, store := newTestWorkflow(t, "Demolition scheduled for 2024-06-01")

	existing, err := store.Create(ctx, repository.CreateRecordRequest{
		OwnerName:      strPtr("Sarah Parker"),
		BuildingName:   "Old Hall",
		DemolitionDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	session, err := wf.Begin(ctx, pngImage, &existing.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ModeUpdate, session.Mode)

	rec, err := wf.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Old Hall", rec.BuildingName)
	require.NotNil(t, rec.OwnerName)
	assert.Equal(t, "Sarah Parker", *rec.OwnerName)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), rec.DemolitionDate)
	assert.True(t, rec.CreatedAt.Equal(existing.CreatedAt))
}

func TestUpdateModeUnknownTarget(t *testing.T) {
	ctx := context.Background()
	wf, _ := newTestWorkflow(t, "Building: Silo\n01/06/2024")

	missing := uuid.New()
	_, err := wf.Begin(ctx, pngImage, &missing)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, constants.SessionIdle, wf.State())
}

func TestRejectDiscardsWithoutStoreWrite(t *testing.T) {
	ctx := context.Background()
	wf, store := newTestWorkflow(t, "Building: Storage Silo\n15/03/2024")

	_, err := wf.Begin(ctx, pngImage, nil)
	require.NoError(t, err)

	require.NoError(t, wf.Reject())
	assert.Equal(t, constants.SessionIdle, wf.State())

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.ErrorIs(t, wf.Reject(), common.ErrNoActiveSession)
}

func TestConfirmIsOneShot(t *testing.T) {
	ctx := context.Background()
	wf, store := newTestWorkflow(t, "Building: Storage Silo\n15/03/2024")

	_, err := wf.Begin(ctx, pngImage, nil)
	require.NoError(t, err)

	_, err = wf.Confirm(ctx)
	require.NoError(t, err)
	_, err = wf.Confirm(ctx)
	assert.ErrorIs(t, err, common.ErrNoActiveSession)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

type failingStore struct {
	*repository.MemoryStore
	fail bool
}

func (s *failingStore) Create(ctx context.Context, req repository.CreateRecordRequest) (entity.DemolitionRecord, error) {
	if s.fail {
		return entity.DemolitionRecord{}, common.ErrStore
	}
	return s.MemoryStore.Create(ctx, req)
}

func TestConfirmStoreFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: repository.NewMemoryStore(), fail: true}
	proc := pipeline.NewProcessor(textRecognizer{text: "Building: Storage Silo\n15/03/2024"}, extract.Options{}, nil)
	wf := NewWorkflow(proc, store, nil, nil)

	_, err := wf.Begin(ctx, pngImage, nil)
	require.NoError(t, err)

	_, err = wf.Confirm(ctx)
	require.ErrorIs(t, err, common.ErrStore)
	assert.Equal(t, constants.SessionReviewing, wf.State())
	require.NotNil(t, wf.Session())

	store.fail = false
	rec, err := wf.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Storage Silo", rec.BuildingName)
}

func TestBeginWhileReviewingRejected(t *testing.T) {
	ctx := context.Background()
	wf, _ := newTestWorkflow(t, "Building: Storage Silo\n15/03/2024")

	_, err := wf.Begin(ctx, pngImage, nil)
	require.NoError(t, err)

	_, err = wf.Begin(ctx, pngImage, nil)
	assert.ErrorIs(t, err, common.ErrReviewInProgress)
}

func TestBeginRejectsBadPayloads(t *testing.T) {
	ctx := context.Background()
	wf, _ := newTestWorkflow(t, "Building: Silo\n15/03/2024")

	_, err := wf.Begin(ctx, nil, nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = wf.Begin(ctx, []byte("plain text, not an image"), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, constants.SessionIdle, wf.State())
}

func TestEmptyRecognitionLeavesIdle(t *testing.T) {
	ctx := context.Background()
	wf, _ := newTestWorkflow(t, "   ")

	_, err := wf.Begin(ctx, pngImage, nil)
	assert.ErrorIs(t, err, common.ErrEmptyInput)
	assert.Equal(t, constants.SessionIdle, wf.State())
	assert.Nil(t, wf.Session())
}

func TestEditAdjustsCandidate(t *testing.T) {
	ctx := context.Background()
	wf, _ := newTestWorkflow(t, "Building: Storage Silo\n15/03/2024")

	_, err := wf.Begin(ctx, pngImage, nil)
	require.NoError(t, err)

	newDate := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)
	session, err := wf.Edit(Edit{
		BuildingName:   strPtr("Grain Silo"),
		OwnerName:      strPtr("Sarah Parker"),
		DemolitionDate: &newDate,
		Notes:          strPtr("verified with county office"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Grain Silo", session.Candidate.BuildingName)
	require.NotNil(t, session.Notes)

	_, err = wf.Edit(Edit{BuildingName: strPtr("   ")})
	assert.ErrorIs(t, err, common.ErrValidation)

	rec, err := wf.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grain Silo", rec.BuildingName)
	assert.Equal(t, newDate, rec.DemolitionDate)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, "verified with county office", *rec.Notes)
}

func TestEditWithoutSession(t *testing.T) {
	wf, _ := newTestWorkflow(t, "x")
	_, err := wf.Edit(Edit{BuildingName: strPtr("Silo")})
	assert.ErrorIs(t, err, common.ErrNoActiveSession)
}

func TestCancelDiscardsReview(t *testing.T) {
	ctx := context.Background()
	wf, store := newTestWorkflow(t, "Building: Storage Silo\n15/03/2024")

	_, err := wf.Begin(ctx, pngImage, nil)
	require.NoError(t, err)

	wf.Cancel()
	assert.Equal(t, constants.SessionIdle, wf.State())

	_, err = wf.Confirm(ctx)
	assert.ErrorIs(t, err, common.ErrNoActiveSession)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

type blockingRecognizer struct {
	release chan struct{}
	text    string
}

func (r *blockingRecognizer) Recognize(context.Context, []byte) (recognize.Result, error) {
	<-r.release
	return recognize.Result{Text: r.text}, nil
}

func TestCancelDuringUploadDiscardsResult(t *testing.T) {
	ctx := context.Background()
	rec := &blockingRecognizer{release: make(chan struct{}), text: "Building: Storage Silo\n15/03/2024"}
	store := repository.NewMemoryStore()
	proc := pipeline.NewProcessor(rec, extract.Options{}, nil)
	wf := NewWorkflow(proc, store, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Begin(ctx, pngImage, nil)
		done <- err
	}()

	// Wait for the upload to take the workflow out of Idle.
	require.Eventually(t, func() bool {
		return wf.State() == constants.SessionUploading
	}, time.Second, time.Millisecond)

	wf.Cancel()
	close(rec.release)

	err := <-done
	assert.ErrorIs(t, err, common.ErrNoActiveSession)
	assert.Equal(t, constants.SessionIdle, wf.State())
	assert.Nil(t, wf.Session())
}
