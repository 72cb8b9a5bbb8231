package entity

import "time"

// CandidateRecord is extracted-but-unconfirmed notice data awaiting human
// review. Before normalization BuildingName may be empty and DemolitionDate
// may be the zero time; after normalization both are always set. Optional
// fields are present-or-absent, never empty strings.
type CandidateRecord struct {
	OwnerName      *string   `json:"ownerName,omitempty"`
	BuildingName   string    `json:"buildingName"`
	Location       *string   `json:"location,omitempty"`
	DemolitionDate time.Time `json:"demolitionDate"`

	// ExtractedText carries the verbatim recognized text for audit and
	// display. It is never modified by extraction or normalization.
	ExtractedText string `json:"extractedText"`
}
