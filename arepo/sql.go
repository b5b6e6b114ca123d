package arepo

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"

	"github.com/Masterminds/squirrel"

	"github.com/racetrack-labs/paddock/arepo/q"
)

var (
	errUnknownColumn   = errors.New("unknown column")
	errInvalidOperator = errors.New("invalid operator")
)

// dialect holds the sql differences between the supported databases.
type dialect struct {
	builder squirrel.StatementBuilderType

	// fold wraps an expression, so that comparing two folded expressions ignores case.
	fold func(expr string) string
	// contains and hasPrefix return a boolean sql expression.
	contains  func(haystack, needle string) string
	hasPrefix func(haystack, needle string) string
}

//nolint:gochecknoglobals // squirrel recommends a global builder
var (
	psql = dialect{
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		fold:      func(expr string) string { return "LOWER(" + expr + ")" },
		contains:  func(h, n string) string { return "strpos(" + h + ", " + n + ") > 0" },
		hasPrefix: func(h, n string) string { return "starts_with(" + h + ", " + n + ")" },
	}

	// casefold is registered by the sqlite package.
	sqlitesql = dialect{
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		fold:      func(expr string) string { return "casefold(" + expr + ")" },
		contains:  func(h, n string) string { return "instr(" + h + ", " + n + ") > 0" },
		hasPrefix: func(h, n string) string { return "instr(" + h + ", " + n + ") = 1" },
	}
)

// selectAll builds the query for all entities matching query.
func (d dialect) selectAll(table string, cols []column, idColumn string, query q.Query) (string, []any, error) {
	stmt := d.builder.Select(columnNames(cols)...).From(table)

	for _, c := range query.Conditions.Conditions {
		cond, err := d.condition(cols, c)
		if err != nil {
			return "", nil, err
		}

		stmt = stmt.Where(cond)
	}

	for _, g := range query.Conditions.Groups {
		group, err := d.group(cols, g)
		if err != nil {
			return "", nil, err
		}

		stmt = stmt.Where(group)
	}

	if field, desc, ok := query.Ordering(); ok {
		if !hasColumn(cols, field) {
			return "", nil, fmt.Errorf("%w: %s", errUnknownColumn, field)
		}

		direction := " ASC"
		if desc {
			direction = " DESC"
		}

		stmt = stmt.OrderBy(quoteIdent(field) + direction)
	}

	//nolint:wrapcheck // caller wraps properly
	return stmt.OrderBy(quoteIdent(idColumn) + " ASC").ToSql()
}

func (d dialect) group(cols []column, g q.ConditionGroup) (squirrel.Sqlizer, error) {
	parts := make([]squirrel.Sqlizer, 0, len(g.Conditions)+len(g.Groups))

	for _, c := range g.Conditions {
		cond, err := d.condition(cols, c)
		if err != nil {
			return nil, err
		}

		parts = append(parts, cond)
	}

	for _, inner := range g.Groups {
		cond, err := d.group(cols, inner)
		if err != nil {
			return nil, err
		}

		parts = append(parts, cond)
	}

	if g.Operator == q.LogicalOr {
		return squirrel.Or(parts), nil
	}

	return squirrel.And(parts), nil
}

func (d dialect) condition(cols []column, c q.Condition) (squirrel.Sqlizer, error) {
	field, ok := lookupColumn(cols, c.Field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownColumn, c.Field)
	}

	col := quoteIdent(c.Field)

	value, err := driverValue(c.Value)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case q.Eq:
		return squirrel.Eq{col: value}, nil
	case q.Ne:
		return squirrel.NotEq{col: value}, nil
	case q.Gt:
		return squirrel.Gt{col: value}, nil
	case q.Gte:
		return squirrel.GtOrEq{col: value}, nil
	case q.Lt:
		return squirrel.Lt{col: value}, nil
	case q.Lte:
		return squirrel.LtOrEq{col: value}, nil
	case q.Between:
		second, err := driverValue(c.SecondValue)
		if err != nil {
			return nil, err
		}

		return squirrel.And{squirrel.GtOrEq{col: value}, squirrel.LtOrEq{col: second}}, nil
	case q.EqFold, q.Contains, q.ContainsFold, q.HasPrefixFold:
		s, ok := value.(string)
		if !ok || field.kind != reflect.String {
			return nil, fmt.Errorf("%w: %s requires a text field and value", errInvalidOperator, c.Operator)
		}

		return d.text(col, c.Operator, s), nil
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidOperator, c.Operator)
	}
}

func (d dialect) text(col string, op q.Operator, value string) squirrel.Sqlizer {
	switch op { //nolint:exhaustive // only text operators reach here
	case q.EqFold:
		return squirrel.Expr(d.fold(col)+" = "+d.fold("?"), value)
	case q.Contains:
		return squirrel.Expr(d.contains(col, "?"), value)
	case q.ContainsFold:
		return squirrel.Expr(d.contains(d.fold(col), d.fold("?")), value)
	default:
		return squirrel.Expr(d.hasPrefix(d.fold(col), d.fold("?")), value)
	}
}

// driverValue resolves driver.Valuer, so that a Valuer mapping to NULL is compared with IS NULL.
func driverValue(v any) (any, error) {
	valuer, ok := v.(driver.Valuer)
	if !ok {
		return v, nil
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}

	value, err := valuer.Value()
	if err != nil {
		return nil, fmt.Errorf("%w: could not get value of %T: %v", errFindFailed, v, err)
	}

	return value, nil
}
