package services

import (
	"context"

	"recordbase/datastore"
	"recordbase/models"
)

// NoteRepository defines the data access the note service needs.
// Interface for testability - production uses repository.Repository[models.Note].
type NoteRepository interface {
	Create(ctx context.Context, data *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id string) *models.Note
	Update(ctx context.Context, id string, patch datastore.Fields) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	Destroy(ctx context.Context, id string) error
	GetAll(ctx context.Context, clauses ...datastore.Clause) ([]models.Note, error)
	QueryRecords(ctx context.Context, clauses ...datastore.Clause) ([]*datastore.Record, error)
	PrepareUpdate(rec *datastore.Record, patch datastore.Fields) *datastore.Prepared
	PrepareDelete(rec *datastore.Record) *datastore.Prepared
}

// ContextRepository defines the data access the context service needs.
type ContextRepository interface {
	Create(ctx context.Context, data *models.Context) (*models.Context, error)
	GetByID(ctx context.Context, id string) *models.Context
	Update(ctx context.Context, id string, patch datastore.Fields) (*models.Context, error)
	GetAll(ctx context.Context, clauses ...datastore.Clause) ([]models.Context, error)
	FindRecord(ctx context.Context, id string) (*datastore.Record, error)
	PrepareUpdate(rec *datastore.Record, patch datastore.Fields) *datastore.Prepared
	PrepareDelete(rec *datastore.Record) *datastore.Prepared
}

// Batcher commits a set of prepared mutations atomically.
// Production uses datastore.DB.
type Batcher interface {
	Batch(ctx context.Context, ops ...*datastore.Prepared) error
}
