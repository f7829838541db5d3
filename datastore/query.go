package datastore

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Clause is one typed predicate on a record field. Clauses are
// translated to SQL over the JSON document at fetch time.
type Clause struct {
	field  string
	op     string
	value  any
	values []any
}

// Eq matches records whose field equals value.
func Eq(field string, value any) Clause { return Clause{field: field, op: "=", value: value} }

// Ne matches records whose field differs from value.
func Ne(field string, value any) Clause { return Clause{field: field, op: "!=", value: value} }

// Gt matches records whose field is greater than value.
func Gt(field string, value any) Clause { return Clause{field: field, op: ">", value: value} }

// Gte matches records whose field is greater than or equal to value.
func Gte(field string, value any) Clause { return Clause{field: field, op: ">=", value: value} }

// Lt matches records whose field is less than value.
func Lt(field string, value any) Clause { return Clause{field: field, op: "<", value: value} }

// Lte matches records whose field is less than or equal to value.
func Lte(field string, value any) Clause { return Clause{field: field, op: "<=", value: value} }

// Like matches records whose field matches a SQL LIKE pattern.
func Like(field string, pattern string) Clause {
	return Clause{field: field, op: "LIKE", value: pattern}
}

// In matches records whose field equals any of the given values.
func In(field string, values ...any) Clause {
	return Clause{field: field, op: "IN", values: values}
}

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (c Clause) where() (string, []any, error) {
	if !fieldNamePattern.MatchString(c.field) {
		return "", nil, fmt.Errorf("datastore: invalid field name %q", c.field)
	}

	extract := fmt.Sprintf("json_extract(fields, '$.%s')", c.field)

	if c.op == "IN" {
		if len(c.values) == 0 {
			// IN () matches nothing
			return "0", nil, nil
		}
		placeholders := strings.Repeat("?, ", len(c.values)-1) + "?"
		return fmt.Sprintf("%s IN (%s)", extract, placeholders), c.values, nil
	}

	return fmt.Sprintf("%s %s ?", extract, c.op), []any{c.value}, nil
}

// Query is a deferred read over one collection. Fetch materializes the
// full result set eagerly, in creation order.
type Query struct {
	coll    *Collection
	clauses []Clause
}

func (q *Query) Fetch(ctx context.Context) ([]*Record, error) {
	where := []string{"deleted = 0"}
	var args []any
	for _, clause := range q.clauses {
		cond, condArgs, err := clause.where()
		if err != nil {
			return nil, err
		}
		where = append(where, cond)
		args = append(args, condArgs...)
	}

	rows, err := q.coll.db.sql.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, deleted, fields, created_at, updated_at
		FROM %s
		WHERE %s
		ORDER BY created_at ASC, rowid ASC
	`, q.coll.name, strings.Join(where, " AND ")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	records := make([]*Record, 0)
	for rows.Next() {
		rec, err := q.coll.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
