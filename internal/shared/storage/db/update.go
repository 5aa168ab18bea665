package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFields is returned when an update would carry zero set clauses.
var ErrNoFields = errors.New("no fields to update")

// UpdateBuilder assembles a parameterized partial UPDATE from explicit
// per-field Set calls. Only columns that were actually supplied end up in
// the statement; everything else keeps its stored value.
type UpdateBuilder struct {
	table  string
	sets   []string
	exprs  []string
	wheres []string
	args   []any
}

// NewUpdate starts a builder for the given table.
func NewUpdate(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set adds a column = $n clause.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, column)
	b.args = append(b.args, value)
	return b
}

// SetNull adds a column = NULL clause.
func (b *UpdateBuilder) SetNull(column string) *UpdateBuilder {
	b.exprs = append(b.exprs, column+" = NULL")
	return b
}

// SetExpr adds a raw expression clause such as "updated_at = now()".
// The expression must not reference placeholders.
func (b *UpdateBuilder) SetExpr(expr string) *UpdateBuilder {
	b.exprs = append(b.exprs, expr)
	return b
}

// Where adds a column = $n condition; conditions are ANDed.
func (b *UpdateBuilder) Where(column string, value any) *UpdateBuilder {
	b.wheres = append(b.wheres, column)
	b.args = append(b.args, value)
	return b
}

// Fields reports how many caller-supplied columns have been set.
func (b *UpdateBuilder) Fields() int {
	return len(b.sets)
}

// Build renders the statement and its ordered arguments. It fails with
// ErrNoFields when no caller-supplied column was set; expression-only
// updates (timestamps) are not meaningful on their own.
func (b *UpdateBuilder) Build() (string, []any, error) {
	if len(b.sets) == 0 {
		return "", nil, ErrNoFields
	}

	clauses := make([]string, 0, len(b.sets)+len(b.exprs))
	n := 1
	for _, col := range b.sets {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, n))
		n++
	}
	clauses = append(clauses, b.exprs...)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(clauses, ", "))

	if len(b.wheres) > 0 {
		conds := make([]string, 0, len(b.wheres))
		for _, col := range b.wheres {
			conds = append(conds, fmt.Sprintf("%s = $%d", col, n))
			n++
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	return sb.String(), b.args, nil
}
