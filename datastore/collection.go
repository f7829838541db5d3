package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Collection is the handle to all records of one table.
type Collection struct {
	db   *DB
	name string
}

func (c *Collection) Name() string {
	return c.name
}

// Find returns the live record with the given id. Soft-deleted rows
// are invisible here; absence is reported as ErrNotFound.
func (c *Collection) Find(ctx context.Context, id string) (*Record, error) {
	row := c.db.sql.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, deleted, fields, created_at, updated_at
		FROM %s
		WHERE id = ? AND deleted = 0
	`, c.name), id)

	rec, err := c.scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Query builds a query over the collection's live records, constrained
// by the given clauses. No clauses means every live record.
func (c *Collection) Query(clauses ...Clause) *Query {
	return &Query{coll: c, clauses: clauses}
}

// Create persists one new record inside a write transaction. When
// fields carries no "id" entry, a fresh UUID is assigned.
func (c *Collection) Create(ctx context.Context, fields Fields) (*Record, error) {
	rec := c.newRecord(fields)
	err := c.db.Write(ctx, func(tx *sql.Tx) error {
		return insertTx(ctx, tx, c.name, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// PrepareCreate builds an unsaved record with its id already assigned.
// Nothing is persisted until the prepared mutation goes through
// DB.Batch.
func (c *Collection) PrepareCreate(fields Fields) *Prepared {
	return &Prepared{kind: prepCreate, rec: c.newRecord(fields)}
}

func (c *Collection) newRecord(fields Fields) *Record {
	fields = fields.clone()

	id, _ := fields["id"].(string)
	delete(fields, "id")
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now().UTC()
	return &Record{
		coll:      c,
		ID:        id,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (c *Collection) scanRecord(row rowScanner) (*Record, error) {
	var (
		rec     Record
		deleted int
		raw     string
	)
	if err := row.Scan(&rec.ID, &deleted, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, err
	}

	rec.coll = c
	rec.Deleted = deleted == 1
	rec.Fields = fields
	return &rec, nil
}
