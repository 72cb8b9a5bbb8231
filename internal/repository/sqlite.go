package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS demolitions (
	id              TEXT PRIMARY KEY,
	owner_name      TEXT,
	building_name   TEXT NOT NULL,
	location        TEXT,
	demolition_date TEXT NOT NULL,
	image_url       TEXT,
	extracted_text  TEXT,
	notes           TEXT,
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_demolitions_date ON demolitions (demolition_date);
`

// SQLiteStore persists records in a local SQLite database. Timestamps are
// stored as fixed-width RFC 3339 UTC text so ordering by date works
// lexically; RFC3339Nano is unsuitable here because it trims trailing
// fractional zeros and breaks that property.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %q: %v", common.ErrStore, path, err)
	}
	// modernc sqlite serializes on a single connection anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", common.ErrStore, err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

const sqliteColumns = "id, owner_name, building_name, location, demolition_date, image_url, extracted_text, notes, created_at"

// sqliteTimeLayout pads fractional seconds to nine digits and pins the zone
// to UTC, keeping lexical and chronological order identical.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *SQLiteStore) List(ctx context.Context) ([]entity.DemolitionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sqliteColumns+" FROM demolitions ORDER BY demolition_date ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStore, err)
	}
	defer rows.Close()

	var out []entity.DemolitionRecord
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
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

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (entity.DemolitionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sqliteColumns+" FROM demolitions WHERE id = ?", id.String())
	rec, err := scanSQLiteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}
	return rec, err
}

func (s *SQLiteStore) Create(ctx context.Context, req CreateRecordRequest) (entity.DemolitionRecord, error) {
	if err := req.Validate(); err != nil {
		return entity.DemolitionRecord{}, err
	}

	rec := entity.DemolitionRecord{
		ID:             uuid.New(),
		OwnerName:      req.OwnerName,
		BuildingName:   req.BuildingName,
		Location:       req.Location,
		DemolitionDate: req.DemolitionDate,
		ImageURL:       req.ImageURL,
		ExtractedText:  req.ExtractedText,
		Notes:          req.Notes,
		CreatedAt:      s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO demolitions ("+sqliteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID.String(),
		nullString(rec.OwnerName),
		rec.BuildingName,
		nullString(rec.Location),
		rec.DemolitionDate.UTC().Format(sqliteTimeLayout),
		nullString(rec.ImageURL),
		nullString(rec.ExtractedText),
		nullString(rec.Notes),
		rec.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: create: %v", common.ErrStore, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (entity.DemolitionRecord, error) {
	if err := req.Validate(); err != nil {
		return entity.DemolitionRecord{}, err
	}

	// Read-modify-write; MaxOpenConns(1) makes it effectively atomic.
	rec, err := s.Get(ctx, id)
	if err != nil {
		return entity.DemolitionRecord{}, err
	}

	if req.OwnerName != nil {
		rec.OwnerName = req.OwnerName
	}
	if req.BuildingName != nil {
		rec.BuildingName = *req.BuildingName
	}
	if req.Location != nil {
		rec.Location = req.Location
	}
	if req.DemolitionDate != nil {
		rec.DemolitionDate = *req.DemolitionDate
	}
	if req.ImageURL != nil {
		rec.ImageURL = req.ImageURL
	}
	if req.ExtractedText != nil {
		rec.ExtractedText = req.ExtractedText
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE demolitions SET owner_name = ?, building_name = ?, location = ?,
			demolition_date = ?, image_url = ?, extracted_text = ?, notes = ?
		 WHERE id = ?`,
		nullString(rec.OwnerName),
		rec.BuildingName,
		nullString(rec.Location),
		rec.DemolitionDate.UTC().Format(sqliteTimeLayout),
		nullString(rec.ImageURL),
		nullString(rec.ExtractedText),
		nullString(rec.Notes),
		id.String(),
	)
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: update: %v", common.ErrStore, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM demolitions WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("%w: delete: %v", common.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete: %v", common.ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner) (entity.DemolitionRecord, error) {
	var (
		idStr, buildingName, dateStr, createdStr string
		ownerName, location, imageURL            sql.NullString
		extractedText, notes                     sql.NullString
	)
	if err := row.Scan(&idStr, &ownerName, &buildingName, &location, &dateStr,
		&imageURL, &extractedText, &notes, &createdStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.DemolitionRecord{}, err
		}
		return entity.DemolitionRecord{}, fmt.Errorf("%w: scan: %v", common.ErrStore, err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: bad id %q: %v", common.ErrStore, idStr, err)
	}
	date, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: bad date %q: %v", common.ErrStore, dateStr, err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: bad created_at %q: %v", common.ErrStore, createdStr, err)
	}

	return entity.DemolitionRecord{
		ID:             id,
		OwnerName:      ptrFromNull(ownerName),
		BuildingName:   buildingName,
		Location:       ptrFromNull(location),
		DemolitionDate: date,
		ImageURL:       ptrFromNull(imageURL),
		ExtractedText:  ptrFromNull(extractedText),
		Notes:          ptrFromNull(notes),
		CreatedAt:      created,
	}, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func ptrFromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
