// Package query assembles parameterized PostgreSQL SELECT statements from
// (predicate, arguments) pairs.
//
// Predicates are written with `?` markers. Placeholders are only numbered when
// the statement is rendered, in the order they appear in the final SQL, so
// `$n` always refers to args[n-1] no matter which optional predicates were
// added or in which order the builder methods were called.
package query

import (
	"fmt"
	"strings"
)

// Cond is one predicate with the values for its `?` markers.
type Cond struct {
	SQL  string
	Args []any
}

// Expr creates a Cond.
func Expr(sql string, args ...any) Cond {
	return Cond{SQL: sql, Args: args}
}

// SelectBuilder builds a single SELECT statement.
//
// The zero value is not usable; start from Select.
type SelectBuilder struct {
	columns []string
	from    string
	joins   []string
	where   []Cond
	groupBy []string
	having  []Cond
	orderBy []string
	limit   *Cond
}

// Select starts a SELECT over the given column expressions.
func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

// From sets the FROM table.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = table
	return b
}

// Join appends an INNER JOIN.
func (b *SelectBuilder) Join(table, on string) *SelectBuilder {
	b.joins = append(b.joins, "JOIN "+table+" ON "+on)
	return b
}

// LeftJoin appends a LEFT JOIN.
func (b *SelectBuilder) LeftJoin(table, on string) *SelectBuilder {
	b.joins = append(b.joins, "LEFT JOIN "+table+" ON "+on)
	return b
}

// Where adds a row-level predicate. The first one introduces WHERE,
// every later one is joined with AND.
func (b *SelectBuilder) Where(sql string, args ...any) *SelectBuilder {
	b.where = append(b.where, Expr(sql, args...))
	return b
}

// GroupBy sets the grouping expressions.
func (b *SelectBuilder) GroupBy(exprs ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, exprs...)
	return b
}

// Having adds a post-aggregation predicate. The first one introduces HAVING,
// every later one is joined with AND.
func (b *SelectBuilder) Having(sql string, args ...any) *SelectBuilder {
	b.having = append(b.having, Expr(sql, args...))
	return b
}

// OrderBy appends ordering expressions.
func (b *SelectBuilder) OrderBy(exprs ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, exprs...)
	return b
}

// Limit caps the number of rows. The value is passed as the last parameter.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	limit := Expr("?", n)
	b.limit = &limit
	return b
}

// Build renders the statement and returns it with its positional arguments.
//
// It fails when a predicate's `?` count does not match its argument count,
// or when no FROM table was set.
func (b *SelectBuilder) Build() (string, []any, error) {
	if b.from == "" {
		return "", nil, fmt.Errorf("query: missing FROM table")
	}

	var sql strings.Builder
	var args []any

	sql.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.columns, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.from)

	for _, join := range b.joins {
		sql.WriteString(" ")
		sql.WriteString(join)
	}

	if err := writeConds(&sql, &args, "WHERE", b.where); err != nil {
		return "", nil, err
	}

	if len(b.groupBy) > 0 {
		sql.WriteString(" GROUP BY ")
		sql.WriteString(strings.Join(b.groupBy, ", "))
	}

	if err := writeConds(&sql, &args, "HAVING", b.having); err != nil {
		return "", nil, err
	}

	if len(b.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit != nil {
		sql.WriteString(" LIMIT ")
		if err := writeCond(&sql, &args, *b.limit); err != nil {
			return "", nil, err
		}
	}

	return sql.String(), args, nil
}

// writeConds writes "<keyword> c1 AND c2 ..." or nothing for an empty list.
func writeConds(sql *strings.Builder, args *[]any, keyword string, conds []Cond) error {
	for i, cond := range conds {
		if i == 0 {
			sql.WriteString(" " + keyword + " ")
		} else {
			sql.WriteString(" AND ")
		}
		if err := writeCond(sql, args, cond); err != nil {
			return err
		}
	}
	return nil
}

// writeCond copies cond.SQL, replacing each `?` with the next `$n`
// and appending the matching value to args.
func writeCond(sql *strings.Builder, args *[]any, cond Cond) error {
	used := 0
	for _, r := range cond.SQL {
		if r != '?' {
			sql.WriteRune(r)
			continue
		}
		if used >= len(cond.Args) {
			return fmt.Errorf("query: %q has more placeholders than arguments (%d)", cond.SQL, len(cond.Args))
		}
		*args = append(*args, cond.Args[used])
		used++
		fmt.Fprintf(sql, "$%d", len(*args))
	}
	if used != len(cond.Args) {
		return fmt.Errorf("query: %q has %d placeholders but %d arguments", cond.SQL, used, len(cond.Args))
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE/ILIKE pattern matching any value that contains s
// literally; '%', '_' and '\' in s are escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
