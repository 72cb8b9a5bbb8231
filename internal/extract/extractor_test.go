package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Korixo/demolition-tracker/internal/common"
)

const sampleNotice = `DEMOLITION NOTICE

Building Name: Storage Silo
Owner: Sarah Parker
Territory: Two Crowns
Demolition scheduled: 15/03/2024

Remove belongings before the listed date.`

func TestExtractSampleNotice(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	cand, err := e.Extract(sampleNotice)
	require.NoError(t, err)

	assert.Equal(t, "Storage Silo", cand.BuildingName)
	require.NotNil(t, cand.OwnerName)
	assert.Equal(t, "Sarah Parker", *cand.OwnerName)
	require.NotNil(t, cand.Location)
	assert.Equal(t, "Two Crowns", *cand.Location)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), cand.DemolitionDate)
	assert.Equal(t, sampleNotice, cand.ExtractedText)
}

func TestExtractEmptyInput(t *testing.T) {
	e := NewExtractor(Options{}, nil)

	_, err := e.Extract("")
	assert.ErrorIs(t, err, common.ErrEmptyInput)

	_, err = e.Extract("   \n\t  \n")
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestExtractFieldMissesAreNotErrors(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	cand, err := e.Extract("some text with no labels anywhere")
	require.NoError(t, err)

	assert.Empty(t, cand.BuildingName)
	assert.Nil(t, cand.OwnerName)
	assert.Nil(t, cand.Location)
	assert.True(t, cand.DemolitionDate.IsZero())
	assert.Equal(t, "some text with no labels anywhere", cand.ExtractedText)
}

func TestExtractLabelVariants(t *testing.T) {
	e := NewExtractor(Options{}, nil)

	cases := []struct {
		name     string
		text     string
		building string
		owner    string
		location string
	}{
		{name: "colon separated", text: "Property: Trade Warehouse\nApplicant: Michael Chen\nAddress: Mirage Isle", building: "Trade Warehouse", owner: "Michael Chen", location: "Mirage Isle"},
		{name: "whitespace separated", text: "Structure  Crafting Hall\nOwner Name  Lisa Anderson\nZone  Solis Headlands", building: "Crafting Hall", owner: "Lisa Anderson", location: "Solis Headlands"},
		{name: "case insensitive labels", text: "bUILDING: Auction House\nOWNER: David Kim\nregion: Nuia", building: "Auction House", owner: "David Kim", location: "Nuia"},
		{name: "label mid line", text: "Attention Owner: Emma Wilson regarding Building: Farmhouse Estate", building: "Farmhouse Estate", owner: "Emma Wilson regarding Building: Farmhouse Estate"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cand, err := e.Extract(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.building, cand.BuildingName)
			if tt.owner == "" {
				assert.Nil(t, cand.OwnerName)
			} else {
				require.NotNil(t, cand.OwnerName)
				assert.Equal(t, tt.owner, *cand.OwnerName)
			}
			if tt.location == "" {
				assert.Nil(t, cand.Location)
			} else {
				require.NotNil(t, cand.Location)
				assert.Equal(t, tt.location, *cand.Location)
			}
		})
	}
}

func TestExtractPropertyOwnerLineIsNotABuilding(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	cand, err := e.Extract("Property Owner: Sarah Parker\nProperty: Merchant Shop")
	require.NoError(t, err)

	assert.Equal(t, "Merchant Shop", cand.BuildingName)
	require.NotNil(t, cand.OwnerName)
	assert.Equal(t, "Sarah Parker", *cand.OwnerName)
}

func TestExtractEmptyRemainderCountsAsNotFound(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	cand, err := e.Extract("Building: \nOwner:\nsome trailing text")
	require.NoError(t, err)

	assert.Empty(t, cand.BuildingName)
	assert.Nil(t, cand.OwnerName)
}

func TestExtractFirstLineWins(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	cand, err := e.Extract("Building: First Hall\nBuilding: Second Hall")
	require.NoError(t, err)
	assert.Equal(t, "First Hall", cand.BuildingName)
}
