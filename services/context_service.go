package services

import (
	"context"
	"strings"
	"time"

	"recordbase/datastore"
	"recordbase/models"
)

// ContextService handles business logic for contexts
type ContextService struct {
	contexts ContextRepository
	notes    NoteRepository
	batcher  Batcher
}

// NewContextService creates a new context service
func NewContextService(contexts ContextRepository, notes NoteRepository, batcher Batcher) *ContextService {
	return &ContextService{
		contexts: contexts,
		notes:    notes,
		batcher:  batcher,
	}
}

// List retrieves all contexts
func (cs *ContextService) List(ctx context.Context) ([]models.Context, error) {
	return cs.contexts.GetAll(ctx)
}

// Create creates a new context
func (cs *ContextService) Create(ctx context.Context, name, color string) (*models.Context, error) {
	name = strings.TrimSpace(name)
	if color == "" {
		color = "primary"
	}

	existing, err := cs.contexts.GetAll(ctx, datastore.Eq("name", name))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrContextAlreadyExists
	}

	return cs.contexts.Create(ctx, &models.Context{
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	})
}

// Update renames or recolors a context. A rename also rewrites the
// context field of every note in it; the context update and all note
// updates are prepared first and committed as one atomic batch.
func (cs *ContextService) Update(ctx context.Context, contextID, name, color string) (*models.Context, error) {
	name = strings.TrimSpace(name)
	if color == "" {
		color = "primary"
	}

	rec, err := cs.contexts.FindRecord(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrContextNotFound
	}

	oldName, _ := rec.Get("name").(string)

	ops := []*datastore.Prepared{
		cs.contexts.PrepareUpdate(rec, datastore.Fields{"name": name, "color": color}),
	}

	if oldName != name {
		noteRecs, err := cs.notes.QueryRecords(ctx, datastore.Eq("context", oldName))
		if err != nil {
			return nil, err
		}
		for _, noteRec := range noteRecs {
			ops = append(ops, cs.notes.PrepareUpdate(noteRec, datastore.Fields{"context": name}))
		}
	}

	if err := cs.batcher.Batch(ctx, ops...); err != nil {
		return nil, err
	}

	return cs.contexts.GetByID(ctx, contextID), nil
}

// Delete soft-deletes a context together with all of its notes in one
// atomic batch.
func (cs *ContextService) Delete(ctx context.Context, contextID string) error {
	rec, err := cs.contexts.FindRecord(ctx, contextID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrContextNotFound
	}

	name, _ := rec.Get("name").(string)

	noteRecs, err := cs.notes.QueryRecords(ctx, datastore.Eq("context", name))
	if err != nil {
		return err
	}

	ops := make([]*datastore.Prepared, 0, len(noteRecs)+1)
	ops = append(ops, cs.contexts.PrepareDelete(rec))
	for _, noteRec := range noteRecs {
		ops = append(ops, cs.notes.PrepareDelete(noteRec))
	}

	return cs.batcher.Batch(ctx, ops...)
}
