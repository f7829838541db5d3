package repository

import (
	"context"
	"errors"

	"recordbase/datastore"
)

// Model is implemented by every record kind. TableName is the static
// collection association and must be constant for the type.
type Model interface {
	TableName() string
}

// Repository is a uniform CRUD and batch-preparation surface for one
// record kind. Every operation delegates to the underlying store's
// collection and record APIs; the repository holds no state of its own
// beyond the database handle and the table name.
type Repository[T Model] struct {
	db    *datastore.DB
	table string
}

// New builds a repository bound to an explicitly injected database
// handle. Most callers go through Instance instead.
func New[T Model](db *datastore.DB) *Repository[T] {
	var zero T
	return &Repository[T]{db: db, table: zero.TableName()}
}

// TableName returns the collection name the record kind is stored
// under.
func (r *Repository[T]) TableName() string {
	return r.table
}

// Collection resolves the table name against the database handle.
func (r *Repository[T]) Collection() (*datastore.Collection, error) {
	if r.db == nil {
		return nil, ErrDatabaseNotSet
	}
	return r.db.Collection(r.table)
}

// Create persists data as one new record inside a write transaction
// and returns the stored value with its identifier populated.
func (r *Repository[T]) Create(ctx context.Context, data *T) (*T, error) {
	coll, err := r.Collection()
	if err != nil {
		return nil, err
	}

	fields, err := modelToFields(*data)
	if err != nil {
		return nil, err
	}

	rec, err := coll.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	return recordToModel[T](rec)
}

// PrepareCreate builds an unsaved record for data, identifier already
// assigned, without opening a transaction. The returned mutation is
// inert until submitted to datastore.DB.Batch.
func (r *Repository[T]) PrepareCreate(data *T) (*datastore.Prepared, error) {
	coll, err := r.Collection()
	if err != nil {
		return nil, err
	}

	fields, err := modelToFields(*data)
	if err != nil {
		return nil, err
	}
	return coll.PrepareCreate(fields), nil
}

// Update looks the record up by id and applies patch in place inside a
// write transaction. Fields not named in patch keep their value. A
// missing id yields (nil, nil) and performs no write. The lookup and
// the mutation are two steps; a concurrent writer in between is not
// detected.
func (r *Repository[T]) Update(ctx context.Context, id string, patch datastore.Fields) (*T, error) {
	rec, err := r.FindRecord(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}

	if err := rec.Update(ctx, patch); err != nil {
		return nil, err
	}
	return recordToModel[T](rec)
}

// PrepareUpdate returns an uncommitted update of an already-fetched
// record for batching.
func (r *Repository[T]) PrepareUpdate(rec *datastore.Record, patch datastore.Fields) *datastore.Prepared {
	return rec.PrepareUpdate(patch)
}

// Delete soft-deletes the record with the given id: the row stays in
// storage but disappears from default lookups. A missing id is a
// no-op, not an error.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	rec, err := r.FindRecord(ctx, id)
	if err != nil || rec == nil {
		return err
	}
	return rec.MarkAsDeleted(ctx)
}

// PrepareDelete returns an uncommitted soft delete of an
// already-fetched record for batching.
func (r *Repository[T]) PrepareDelete(rec *datastore.Record) *datastore.Prepared {
	return rec.PrepareMarkAsDeleted()
}

// Destroy permanently removes the record with the given id. A missing
// id is a no-op, not an error.
func (r *Repository[T]) Destroy(ctx context.Context, id string) error {
	rec, err := r.FindRecord(ctx, id)
	if err != nil || rec == nil {
		return err
	}
	return rec.DestroyPermanently(ctx)
}

// PrepareDestroy returns an uncommitted permanent delete of an
// already-fetched record for batching.
func (r *Repository[T]) PrepareDestroy(rec *datastore.Record) *datastore.Prepared {
	return rec.PrepareDestroyPermanently()
}

// GetByID returns the record as a model value, or nil when it is
// absent. Lookup failures of any kind are normalized to nil; they are
// never surfaced as errors.
func (r *Repository[T]) GetByID(ctx context.Context, id string) *T {
	rec, err := r.FindRecord(ctx, id)
	if err != nil || rec == nil {
		return nil
	}

	out, err := recordToModel[T](rec)
	if err != nil {
		return nil
	}
	return out
}

// FindRecord returns the raw record for id, for callers that want to
// build prepared mutations. Absence yields (nil, nil).
func (r *Repository[T]) FindRecord(ctx context.Context, id string) (*datastore.Record, error) {
	coll, err := r.Collection()
	if err != nil {
		return nil, err
	}

	rec, err := coll.Find(ctx, id)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetAll returns every live record matching the given clauses, eagerly
// materialized in creation order. No clauses means all live records;
// soft-deleted records are excluded either way.
func (r *Repository[T]) GetAll(ctx context.Context, clauses ...datastore.Clause) ([]T, error) {
	recs, err := r.QueryRecords(ctx, clauses...)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := recordToModel[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// QueryRecords is GetAll's record-level sibling, used to collect raw
// records for prepared mutations.
func (r *Repository[T]) QueryRecords(ctx context.Context, clauses ...datastore.Clause) ([]*datastore.Record, error) {
	coll, err := r.Collection()
	if err != nil {
		return nil, err
	}
	return coll.Query(clauses...).Fetch(ctx)
}
