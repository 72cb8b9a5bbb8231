package entity

import (
	"time"

	"github.com/google/uuid"
)

// DemolitionRecord represents a confirmed demolition notice for data
// transfer between layers. The record store owns the canonical copy; the ID
// is assigned at creation and immutable afterwards.
type DemolitionRecord struct {
	ID             uuid.UUID `json:"id"`
	OwnerName      *string   `json:"ownerName,omitempty"`
	BuildingName   string    `json:"buildingName"`
	Location       *string   `json:"location,omitempty"`
	DemolitionDate time.Time `json:"demolitionDate"`
	ImageURL       *string   `json:"imageUrl,omitempty"`
	ExtractedText  *string   `json:"extractedText,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers cannot mutate the stored record.
func (r *DemolitionRecord) Clone() *DemolitionRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.OwnerName = clonePtr(r.OwnerName)
	c.Location = clonePtr(r.Location)
	c.ImageURL = clonePtr(r.ImageURL)
	c.ExtractedText = clonePtr(r.ExtractedText)
	c.Notes = clonePtr(r.Notes)
	return &c
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
