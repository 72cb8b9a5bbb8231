package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Korixo/demolition-tracker/internal/entity"
)

func TestNormalizeFillsRequiredFields(t *testing.T) {
	n := NewNormalizer(nil)
	fixed := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	got := n.Normalize(entity.CandidateRecord{ExtractedText: "illegible scrawl"})

	assert.Equal(t, UnknownBuilding, got.BuildingName)
	assert.Equal(t, fixed, got.DemolitionDate)
	assert.Equal(t, "illegible scrawl", got.ExtractedText)
	assert.Nil(t, got.OwnerName)
	assert.Nil(t, got.Location)
}

func TestNormalizePassesThroughCompleteCandidates(t *testing.T) {
	n := NewNormalizer(nil)
	owner := "Sarah Parker"
	in := entity.CandidateRecord{
		OwnerName:      &owner,
		BuildingName:   "Storage Silo",
		DemolitionDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		ExtractedText:  "Building: Storage Silo",
	}

	got := n.Normalize(in)
	assert.Equal(t, in, got)
}

func TestNormalizeCollapsesBlankOptionals(t *testing.T) {
	n := NewNormalizer(nil)
	blank := "   "
	got := n.Normalize(entity.CandidateRecord{
		OwnerName:      &blank,
		Location:       &blank,
		BuildingName:   "  Trade Warehouse  ",
		DemolitionDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	})

	assert.Nil(t, got.OwnerName)
	assert.Nil(t, got.Location)
	assert.Equal(t, "Trade Warehouse", got.BuildingName)
}

func TestNormalizeAfterExtractAlwaysWellFormed(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	n := NewNormalizer(nil)

	for _, text := range []string{
		"nothing recognizable here",
		"Owner: Sarah Parker",
		"Building: Silo\nDemolition: 15/03/2024",
	} {
		cand, err := e.Extract(text)
		require.NoError(t, err)
		got := n.Normalize(cand)
		assert.NotEmpty(t, got.BuildingName, text)
		assert.False(t, got.DemolitionDate.IsZero(), text)
		assert.Equal(t, text, got.ExtractedText)
	}
}
