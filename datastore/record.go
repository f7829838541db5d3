package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Fields holds the payload of one record, keyed by field name.
type Fields map[string]any

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// merge returns a copy of f with every entry from patch applied.
// Fields absent from patch keep their current value.
func (f Fields) merge(patch Fields) Fields {
	out := f.clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Record is one stored (or, before a batch commit, not-yet-stored)
// document of a collection. Mutations go through the owning database;
// a Record never writes outside a transaction.
type Record struct {
	coll *Collection

	ID        string
	Deleted   bool
	Fields    Fields
	CreatedAt time.Time
	UpdatedAt time.Time

	// pending accumulates patches staged via PrepareUpdate so that
	// successive prepares on one record compose instead of each
	// merging from the same base.
	pending Fields
}

// Get returns one field value, or nil when the field is absent.
func (r *Record) Get(name string) any {
	return r.Fields[name]
}

// Update applies patch to the record inside a write transaction.
// Fields not named in patch are left unchanged. The in-memory fields
// are the merge base; a concurrent writer between the caller's fetch
// and this commit is not detected.
func (r *Record) Update(ctx context.Context, patch Fields) error {
	merged := r.Fields.merge(patch)
	now := time.Now().UTC()

	err := r.coll.db.Write(ctx, func(tx *sql.Tx) error {
		return updateFieldsTx(ctx, tx, r.coll.name, r.ID, merged, now)
	})
	if err != nil {
		return err
	}

	r.Fields = merged
	r.UpdatedAt = now
	return nil
}

// MarkAsDeleted soft-deletes the record: the row stays in storage but
// is excluded from default lookups.
func (r *Record) MarkAsDeleted(ctx context.Context) error {
	now := time.Now().UTC()
	err := r.coll.db.Write(ctx, func(tx *sql.Tx) error {
		return markDeletedTx(ctx, tx, r.coll.name, r.ID, now)
	})
	if err != nil {
		return err
	}

	r.Deleted = true
	r.UpdatedAt = now
	return nil
}

// DestroyPermanently removes the record's row from storage.
func (r *Record) DestroyPermanently(ctx context.Context) error {
	return r.coll.db.Write(ctx, func(tx *sql.Tx) error {
		return destroyTx(ctx, tx, r.coll.name, r.ID)
	})
}

// PrepareUpdate returns an uncommitted update of this record for use
// with DB.Batch. The patch is folded into the record's pending state,
// so a later PrepareUpdate on the same record sees it; the descriptor
// snapshots the full merged document at prepare time.
func (r *Record) PrepareUpdate(patch Fields) *Prepared {
	r.pending = r.pending.merge(patch)
	return &Prepared{kind: prepUpdate, rec: r, fields: r.Fields.merge(r.pending)}
}

// PrepareMarkAsDeleted returns an uncommitted soft delete of this
// record for use with DB.Batch.
func (r *Record) PrepareMarkAsDeleted() *Prepared {
	return &Prepared{kind: prepMarkDeleted, rec: r}
}

// PrepareDestroyPermanently returns an uncommitted permanent delete of
// this record for use with DB.Batch.
func (r *Record) PrepareDestroyPermanently() *Prepared {
	return &Prepared{kind: prepDestroy, rec: r}
}

func encodeFields(fields Fields) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode record fields: %w", err)
	}
	return string(raw), nil
}

func decodeFields(raw string) (Fields, error) {
	fields := make(Fields)
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode record fields: %w", err)
	}
	return fields, nil
}

func insertTx(ctx context.Context, tx *sql.Tx, table string, rec *Record) error {
	raw, err := encodeFields(rec.Fields)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, deleted, fields, created_at, updated_at)
		VALUES (?, 0, ?, ?, ?)
	`, table), rec.ID, raw, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func updateFieldsTx(ctx context.Context, tx *sql.Tx, table, id string, fields Fields, now time.Time) error {
	raw, err := encodeFields(fields)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET fields = ?, updated_at = ? WHERE id = ?
	`, table), raw, now, id)
	return err
}

func markDeletedTx(ctx context.Context, tx *sql.Tx, table, id string, now time.Time) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET deleted = 1, updated_at = ? WHERE id = ?
	`, table), now, id)
	return err
}

func destroyTx(ctx context.Context, tx *sql.Tx, table, id string) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	return err
}
