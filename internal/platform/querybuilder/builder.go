package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one boolean term. Arguments are numbered as $n in the
// order they are appended, across CTEs, joins and the outer query.
type Condition interface {
	appendSQL(buf *strings.Builder, args *[]any, argIndex *int)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" = ")
	appendArg(buf, args, argIndex, c.value)
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func InStrings(column string, values []string) Condition {
	items := make([]any, 0, len(values))
	for _, v := range values {
		items = append(items, v)
	}
	return inCondition{column: column, values: items}
}

func (c inCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.values) == 0 {
		buf.WriteString("1=0")
		return
	}

	buf.WriteString(c.column)
	buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		appendArg(buf, args, argIndex, v)
	}
	buf.WriteString(")")
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) appendSQL(buf *strings.Builder, _ *[]any, _ *int) {
	buf.WriteString(c.column)
	buf.WriteString(" IS NULL")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds a raw boolean expression; each ? consumes one argument.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, args, argIndex))
}

type orCondition struct {
	terms []Condition
}

// Or groups terms in parentheses. An empty Or is false.
func Or(terms ...Condition) Condition {
	return orCondition{terms: terms}
}

func (c orCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.terms) == 0 {
		buf.WriteString("1=0")
		return
	}
	buf.WriteString("(")
	for i, term := range c.terms {
		if i > 0 {
			buf.WriteString(" OR ")
		}
		term.appendSQL(buf, args, argIndex)
	}
	buf.WriteString(")")
}

type cte struct {
	name  string
	query *SelectBuilder
}

type join struct {
	clause string
	args   []any
}

type SelectBuilder struct {
	ctes    []cte
	columns []string
	table   string
	joins   []join
	where   []Condition
	groupBy []string
	window  string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

// With prepends a named common table expression.
func (b *SelectBuilder) With(name string, query *SelectBuilder) *SelectBuilder {
	b.ctes = append(b.ctes, cte{name: name, query: query})
	return b
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Join appends a raw join clause such as "JOIN scoped s ON s.id = d.match_id".
func (b *SelectBuilder) Join(clause string, args ...any) *SelectBuilder {
	b.joins = append(b.joins, join{clause: clause, args: args})
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

// Window declares a named window, e.g. Window("w AS (PARTITION BY ...)").
func (b *SelectBuilder) Window(definition string) *SelectBuilder {
	b.window = strings.TrimSpace(definition)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	var buf strings.Builder
	args := make([]any, 0, len(b.where))
	argIndex := 1
	if err := b.appendQuery(&buf, &args, &argIndex); err != nil {
		return "", nil, err
	}
	return buf.String(), args, nil
}

func (b *SelectBuilder) appendQuery(buf *strings.Builder, args *[]any, argIndex *int) error {
	if len(b.columns) == 0 {
		return fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return fmt.Errorf("select table is required")
	}

	if len(b.ctes) > 0 {
		buf.WriteString("WITH ")
		for i, c := range b.ctes {
			if i > 0 {
				buf.WriteString(", ")
			}
			if c.query == nil {
				return fmt.Errorf("cte %q has no query", c.name)
			}
			buf.WriteString(c.name)
			buf.WriteString(" AS (")
			if err := c.query.appendQuery(buf, args, argIndex); err != nil {
				return fmt.Errorf("cte %q: %w", c.name, err)
			}
			buf.WriteString(")")
		}
		buf.WriteString(" ")
	}

	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	for _, j := range b.joins {
		buf.WriteString(" ")
		buf.WriteString(rewritePlaceholders(j.clause, j.args, args, argIndex))
	}

	appendWhereClause(buf, b.where, args, argIndex)
	appendListClause(buf, " GROUP BY ", b.groupBy)
	if b.window != "" {
		buf.WriteString(" WINDOW ")
		buf.WriteString(b.window)
	}
	appendListClause(buf, " ORDER BY ", b.orderBy)
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}
	return nil
}

func appendWhereClause(buf *strings.Builder, conditions []Condition, args *[]any, argIndex *int) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		c.appendSQL(buf, args, argIndex)
	}
}

func appendListClause(buf *strings.Builder, keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	buf.WriteString(keyword)
	buf.WriteString(strings.Join(parts, ", "))
}

func appendArg(buf *strings.Builder, args *[]any, argIndex *int, value any) {
	buf.WriteString(placeholder(*argIndex))
	*args = append(*args, value)
	*argIndex = *argIndex + 1
}

func placeholder(i int) string {
	return "$" + strconv.Itoa(i)
}

func rewritePlaceholders(expr string, exprArgs []any, args *[]any, argIndex *int) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			appendArg(&out, args, argIndex, exprArgs[next])
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}
