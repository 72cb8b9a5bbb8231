package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
)

// PostgresStore persists records in Postgres through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const pgColumns = "id, owner_name, building_name, location, demolition_date, image_url, extracted_text, notes, created_at"

func (s *PostgresStore) List(ctx context.Context) ([]entity.DemolitionRecord, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+pgColumns+" FROM demolitions ORDER BY demolition_date ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStore, err)
	}
	defer rows.Close()

	var out []entity.DemolitionRecord
	for rows.Next() {
		rec, err := scanPGRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStore, err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (entity.DemolitionRecord, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+pgColumns+" FROM demolitions WHERE id = $1", id)
	rec, err := scanPGRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}
	return rec, err
}

func (s *PostgresStore) Create(ctx context.Context, req CreateRecordRequest) (entity.DemolitionRecord, error) {
	if err := req.Validate(); err != nil {
		return entity.DemolitionRecord{}, err
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO demolitions (id, owner_name, building_name, location, demolition_date, image_url, extracted_text, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+pgColumns,
		uuid.New(), req.OwnerName, req.BuildingName, req.Location,
		req.DemolitionDate.UTC(), req.ImageURL, req.ExtractedText, req.Notes)

	rec, err := scanPGRecord(row)
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: create: %v", common.ErrStore, err)
	}
	return rec, nil
}

func (s *PostgresStore) Update(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (entity.DemolitionRecord, error) {
	if err := req.Validate(); err != nil {
		return entity.DemolitionRecord{}, err
	}

	var date *time.Time
	if req.DemolitionDate != nil {
		d := req.DemolitionDate.UTC()
		date = &d
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE demolitions SET
			owner_name      = COALESCE($2, owner_name),
			building_name   = COALESCE($3, building_name),
			location        = COALESCE($4, location),
			demolition_date = COALESCE($5, demolition_date),
			image_url       = COALESCE($6, image_url),
			extracted_text  = COALESCE($7, extracted_text),
			notes           = COALESCE($8, notes)
		 WHERE id = $1
		 RETURNING `+pgColumns,
		id, req.OwnerName, req.BuildingName, req.Location,
		date, req.ImageURL, req.ExtractedText, req.Notes)

	rec, err := scanPGRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: update: %v", common.ErrStore, err)
	}
	return rec, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM demolitions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", common.ErrStore, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}
	return nil
}

func scanPGRecord(row pgx.Row) (entity.DemolitionRecord, error) {
	var rec entity.DemolitionRecord
	err := row.Scan(
		&rec.ID,
		&rec.OwnerName,
		&rec.BuildingName,
		&rec.Location,
		&rec.DemolitionDate,
		&rec.ImageURL,
		&rec.ExtractedText,
		&rec.Notes,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.DemolitionRecord{}, err
	}
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: scan: %v", common.ErrStore, err)
	}
	return rec, nil
}
