package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/internal/entity"
)

// CachedStore wraps a RecordStore and memoizes the listing. Any successful
// mutation invalidates the cache so the next List reflects it.
type CachedStore struct {
	inner RecordStore

	mu     sync.Mutex
	listed []entity.DemolitionRecord
	valid  bool
}

func NewCachedStore(inner RecordStore) *CachedStore {
	return &CachedStore{inner: inner}
}

func (c *CachedStore) List(ctx context.Context) ([]entity.DemolitionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		recs, err := c.inner.List(ctx)
		if err != nil {
			return nil, err
		}
		c.listed = recs
		c.valid = true
	}

	out := make([]entity.DemolitionRecord, len(c.listed))
	for i, r := range c.listed {
		out[i] = *r.Clone()
	}
	return out, nil
}

func (c *CachedStore) Get(ctx context.Context, id uuid.UUID) (entity.DemolitionRecord, error) {
	return c.inner.Get(ctx, id)
}

func (c *CachedStore) Create(ctx context.Context, req CreateRecordRequest) (entity.DemolitionRecord, error) {
	rec, err := c.inner.Create(ctx, req)
	if err == nil {
		c.invalidate()
	}
	return rec, err
}

func (c *CachedStore) Update(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (entity.DemolitionRecord, error) {
	rec, err := c.inner.Update(ctx, id, req)
	if err == nil {
		c.invalidate()
	}
	return rec, err
}

func (c *CachedStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.inner.Delete(ctx, id)
	if err == nil {
		c.invalidate()
	}
	return err
}

func (c *CachedStore) invalidate() {
	c.mu.Lock()
	c.valid = false
	c.listed = nil
	c.mu.Unlock()
}
