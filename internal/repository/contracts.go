// Package repository persists demolition records. Three implementations
// share one interface: an in-memory map for tests and ephemeral runs, a
// SQLite file for single-machine installs, and Postgres for shared ones.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
)

const maxBuildingNameLength = 255

// RecordStore is the persistence contract for demolition records.
// List returns records ordered by demolition date, soonest first.
type RecordStore interface {
	List(ctx context.Context) ([]entity.DemolitionRecord, error)
	Get(ctx context.Context, id uuid.UUID) (entity.DemolitionRecord, error)
	Create(ctx context.Context, req CreateRecordRequest) (entity.DemolitionRecord, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (entity.DemolitionRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateRecordRequest carries everything needed to persist a new record.
type CreateRecordRequest struct {
	OwnerName      *string
	BuildingName   string
	Location       *string
	DemolitionDate time.Time
	ImageURL       *string
	ExtractedText  *string
	Notes          *string
}

func (r CreateRecordRequest) Validate() error {
	v := common.NewValidator()
	v.Field("buildingName", r.BuildingName, common.Required, common.MaxLength(maxBuildingNameLength))
	v.Field("demolitionDate", r.DemolitionDate, common.NonZeroTime)
	return v.Error()
}

// UpdateRecordRequest is a partial update: nil fields are left untouched.
type UpdateRecordRequest struct {
	OwnerName      *string
	BuildingName   *string
	Location       *string
	DemolitionDate *time.Time
	ImageURL       *string
	ExtractedText  *string
	Notes          *string
}

func (r UpdateRecordRequest) Validate() error {
	v := common.NewValidator()
	if r.BuildingName != nil {
		v.Field("buildingName", *r.BuildingName, common.Required, common.MaxLength(maxBuildingNameLength))
	}
	if r.DemolitionDate != nil {
		v.Field("demolitionDate", *r.DemolitionDate, common.NonZeroTime)
	}
	return v.Error()
}
