// Package sqlrt fetches join rows from a SQL database. A relationship's
// BuildQuery produces a *Query value (table plus WHERE conjuncts); the
// fetcher projects the selected columns into a single SELECT per join type
// batch.
package sqlrt

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hanpama/graphjoin/internal/join"
)

// Query is an immutable table selection. Where returns a derived copy, so a
// BuildQuery hook can refine the parent query without aliasing it.
type Query struct {
	table string
	conds []string
	args  []any
}

func Table(name string) *Query { return &Query{table: name} }

// Where appends a WHERE conjunct with positional ? placeholders.
func (q *Query) Where(cond string, args ...any) *Query {
	cp := &Query{table: q.table}
	cp.conds = append(append([]string{}, q.conds...), cond)
	cp.args = append(append([]any{}, q.args...), args...)
	return cp
}

func (q *Query) render(columns []string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(columns) == 0 {
		b.WriteString("1")
	} else {
		b.WriteString(strings.Join(columns, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(q.table)
	if len(q.conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.conds, " AND "))
	}
	return b.String(), q.args
}

// Source adapts a database handle into a join.FetchFunc.
type Source struct {
	db *sql.DB
}

func New(db *sql.DB) *Source { return &Source{db: db} }

func (s *Source) FetchImmediates(ctx context.Context, selections []join.ImmediateSelection, query any) ([]join.Row, error) {
	q, ok := query.(*Query)
	if !ok {
		return nil, fmt.Errorf("sqlrt: query is %T, want *Query", query)
	}

	columns := make([]string, len(selections))
	for i, sel := range selections {
		field, fok := sel.Field.(*join.ScalarField)
		if !fok {
			return nil, fmt.Errorf("sqlrt: selection %d on %s is not a scalar field", i, q.table)
		}
		columns[i] = field.Attr
	}

	stmt, args := q.render(columns)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlrt: %s: %w", q.table, err)
	}
	defer rows.Close()

	var out []join.Row
	for rows.Next() {
		row := make(join.Row, len(selections))
		if len(selections) == 0 {
			var one int
			if err := rows.Scan(&one); err != nil {
				return nil, err
			}
		} else {
			ptrs := make([]any, len(row))
			for i := range row {
				ptrs[i] = &row[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return nil, err
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
