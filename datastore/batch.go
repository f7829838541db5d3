package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type prepKind int

const (
	prepCreate prepKind = iota
	prepUpdate
	prepMarkDeleted
	prepDestroy
)

// Prepared is one described mutation that has not been committed yet.
// Prepared mutations are inert until submitted to DB.Batch.
type Prepared struct {
	kind prepKind
	rec  *Record

	// fields is the full document an update writes, captured at
	// prepare time with all earlier pending patches already merged.
	fields Fields
}

// Record returns the record the mutation describes. For a prepared
// create this is the unsaved record, id already assigned.
func (p *Prepared) Record() *Record {
	return p.rec
}

// Batch commits all prepared mutations in one transaction. Either
// every described effect becomes observable or none does.
func (db *DB) Batch(ctx context.Context, ops ...*Prepared) error {
	if len(ops) == 0 {
		return nil
	}

	err := db.Write(ctx, func(tx *sql.Tx) error {
		for _, op := range ops {
			if err := op.apply(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The transaction committed; fold the described effects back into
	// the in-memory records.
	for _, op := range ops {
		op.settle()
	}
	return nil
}

func (p *Prepared) apply(ctx context.Context, tx *sql.Tx) error {
	rec := p.rec
	if rec == nil || rec.coll == nil {
		return fmt.Errorf("datastore: prepared mutation has no record")
	}
	table := rec.coll.name

	switch p.kind {
	case prepCreate:
		return insertTx(ctx, tx, table, rec)
	case prepUpdate:
		return updateFieldsTx(ctx, tx, table, rec.ID, p.fields, time.Now().UTC())
	case prepMarkDeleted:
		return markDeletedTx(ctx, tx, table, rec.ID, time.Now().UTC())
	case prepDestroy:
		return destroyTx(ctx, tx, table, rec.ID)
	default:
		return fmt.Errorf("datastore: unknown prepared mutation kind %d", p.kind)
	}
}

func (p *Prepared) settle() {
	switch p.kind {
	case prepUpdate:
		p.rec.Fields = p.fields
		p.rec.pending = nil
	case prepMarkDeleted:
		p.rec.Deleted = true
	}
}
