package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
)

// MemoryStore keeps records in a map. Safe for concurrent use; all returns
// are deep copies so callers cannot mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]entity.DemolitionRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]entity.DemolitionRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) List(_ context.Context) ([]entity.DemolitionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.DemolitionRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DemolitionDate.Before(out[j].DemolitionDate)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (entity.DemolitionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}
	return *r.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, req CreateRecordRequest) (entity.DemolitionRecord, error) {
	if err := req.Validate(); err != nil {
		return entity.DemolitionRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

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
	s.records[rec.ID] = *rec.Clone()
	return rec, nil
}

func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, req UpdateRecordRequest) (entity.DemolitionRecord, error) {
	if err := req.Validate(); err != nil {
		return entity.DemolitionRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return entity.DemolitionRecord{}, fmt.Errorf("%w: record %s", common.ErrNotFound, id)
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

	s.records[id] = *rec.Clone()
	return *rec.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}
	delete(s.records, id)
	return nil
}
