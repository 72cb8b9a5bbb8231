package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
	"github.com/Korixo/demolition-tracker/internal/extract"
	"github.com/Korixo/demolition-tracker/internal/recognize"
)

type fakeRecognizer struct {
	res recognize.Result
	err error
}

func (f fakeRecognizer) Recognize(context.Context, []byte) (recognize.Result, error) {
	return f.res, f.err
}

func TestProcessTextPath(t *testing.T) {
	rec := fakeRecognizer{res: recognize.Result{
		Text: "Building: Storage Silo\nOwner: Sarah Parker\nDemolition scheduled for 15/03/2024",
	}}
	p := NewProcessor(rec, extract.Options{}, nil)

	cand, err := p.Process(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "Storage Silo", cand.BuildingName)
	require.NotNil(t, cand.OwnerName)
	assert.Equal(t, "Sarah Parker", *cand.OwnerName)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), cand.DemolitionDate)
	assert.Contains(t, cand.ExtractedText, "Storage Silo")
}

func TestProcessStructuredPathBypassesExtraction(t *testing.T) {
	owner := "Sarah Parker"
	rec := fakeRecognizer{res: recognize.Result{
		Text: "Owner: Somebody Else",
		Fields: &entity.CandidateRecord{
			OwnerName:      &owner,
			BuildingName:   "Storage Silo",
			DemolitionDate: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
			ExtractedText:  "Building: Storage Silo",
		},
	}}
	p := NewProcessor(rec, extract.Options{}, nil)

	cand, err := p.Process(context.Background(), []byte("img"))
	require.NoError(t, err)
	require.NotNil(t, cand.OwnerName)
	assert.Equal(t, "Sarah Parker", *cand.OwnerName)
	assert.Equal(t, "Building: Storage Silo", cand.ExtractedText)
}

func TestProcessStructuredFallsBackToRecognizedText(t *testing.T) {
	rec := fakeRecognizer{res: recognize.Result{
		Text: "Building: Silo",
		Fields: &entity.CandidateRecord{
			BuildingName:   "Silo",
			DemolitionDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	p := NewProcessor(rec, extract.Options{}, nil)

	cand, err := p.Process(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "Building: Silo", cand.ExtractedText)
}

func TestProcessEmptyRecognition(t *testing.T) {
	p := NewProcessor(fakeRecognizer{res: recognize.Result{Text: "   \n"}}, extract.Options{}, nil)

	_, err := p.Process(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}
