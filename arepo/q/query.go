// Package q builds repository queries independent of the storage backend.
//
//	q.Where("year").Between(2000, 2010)
//	q.Where("name").HasPrefixFold("inter").OrderBy("name").Ascending()
//
// Fields are named by their column, see Filter for the mapping of struct fields.
package q

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/georgysavva/scany/v2/dbscan"
)

// Operator represents a comparison of a field with one or two values.
type Operator string

const (
	Eq  Operator = "="
	Ne  Operator = "!="
	Gt  Operator = ">"
	Gte Operator = ">="
	Lt  Operator = "<"
	Lte Operator = "<="

	// Between includes both bounds.
	Between Operator = "BETWEEN"

	// The remaining operators only apply to text.
	EqFold        Operator = "EQUAL_FOLD"
	Contains      Operator = "CONTAINS"
	ContainsFold  Operator = "CONTAINS_FOLD"
	HasPrefixFold Operator = "HAS_PREFIX_FOLD"
)

type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// Query is immutable: every method returns a new Query.
type Query struct {
	Conditions ConditionGroup
	ordering   *orderBy
}

// Where adds another condition that has to hold in addition to the existing ones.
func (q Query) Where(field string) *WhereQuery {
	return &WhereQuery{query: q, field: field}
}

// Or adds a group of conditions of which at least one has to hold.
func (q Query) Or(cond ...Query) Query {
	group := ConditionGroup{Operator: LogicalOr}
	for _, c := range cond {
		group.Conditions = append(group.Conditions, c.Conditions.Conditions...)
	}

	q.Conditions.Groups = append(slices.Clone(q.Conditions.Groups), group)

	return q
}

// Ordering returns the field to order by. Without an explicit order ok is false.
func (q Query) Ordering() (field string, descending bool, ok bool) {
	if q.ordering == nil {
		return "", false, false
	}

	return q.ordering.field, q.ordering.direction == "DESC", true
}

func (q Query) addCondition(c Condition) Query {
	q.Conditions.Conditions = append(slices.Clone(q.Conditions.Conditions), c)

	return q
}

type ConditionGroup struct {
	Operator   LogicalOperator
	Conditions []Condition
	Groups     []ConditionGroup
}

// Condition represents a single WHERE condition.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
	// For BETWEEN operator
	SecondValue any
}

func Where(field string) *WhereQuery {
	return &WhereQuery{query: Query{Conditions: ConditionGroup{Operator: LogicalAnd}}, field: field}
}

type WhereQuery struct {
	query Query
	field string
}

func (w *WhereQuery) is(op Operator, value any) Query {
	return w.query.addCondition(Condition{Field: w.field, Operator: op, Value: value})
}

func (w *WhereQuery) Is(value any) Query                 { return w.is(Eq, value) }
func (w *WhereQuery) IsNot(value any) Query              { return w.is(Ne, value) }
func (w *WhereQuery) GreaterThan(value any) Query        { return w.is(Gt, value) }
func (w *WhereQuery) GreaterThanOrEqual(value any) Query { return w.is(Gte, value) }
func (w *WhereQuery) LessThan(value any) Query           { return w.is(Lt, value) }
func (w *WhereQuery) LessThanOrEqual(value any) Query    { return w.is(Lte, value) }

// Between matches values in the closed interval [from, to].
func (w *WhereQuery) Between(from, to any) Query {
	return w.query.addCondition(Condition{Field: w.field, Operator: Between, Value: from, SecondValue: to})
}

// EqualFold matches text that is equal under Unicode case folding.
func (w *WhereQuery) EqualFold(value string) Query { return w.is(EqFold, value) }

// Contains matches text containing value, respecting case.
func (w *WhereQuery) Contains(value string) Query { return w.is(Contains, value) }

func (w *WhereQuery) ContainsFold(value string) Query { return w.is(ContainsFold, value) }

func (w *WhereQuery) HasPrefixFold(value string) Query { return w.is(HasPrefixFold, value) }

type orderBy struct {
	field     string
	direction string
}

func (q Query) OrderBy(field string) *OrderQuery {
	return &OrderQuery{query: q, field: field}
}

type OrderQuery struct {
	query Query
	field string
}

func (o *OrderQuery) Ascending() Query {
	o.query.ordering = &orderBy{field: o.field, direction: "ASC"}
	return o.query
}

func (o *OrderQuery) Descending() Query {
	o.query.ordering = &orderBy{field: o.field, direction: "DESC"}
	return o.query
}

// Filter builds an equality condition for every field of objFilter that is not the zero value.
// The field is named by its db tag or, without a tag, by the snake case of its Go name.
func Filter[T any](objFilter T) Query {
	fv := reflect.ValueOf(objFilter)
	ft := fv.Type()

	var conditions []Condition

	for i := range fv.NumField() {
		if !ft.Field(i).IsExported() {
			continue
		}

		field := fv.Field(i)
		if field.IsZero() {
			continue
		}

		conditions = append(conditions, Condition{
			Field:    FieldName(ft.Field(i)),
			Operator: Eq,
			Value:    field.Interface(),
		})
	}

	return Query{Conditions: ConditionGroup{Operator: LogicalAnd, Conditions: conditions}}
}

// FieldName returns the column name of a struct field.
func FieldName(tField reflect.StructField) string {
	if dbTag := tField.Tag.Get("db"); dbTag != "" {
		if strings.Contains(dbTag, ".") {
			return fmt.Sprintf(`"%s"`, dbTag)
		}

		return dbTag
	}

	return dbscan.SnakeCaseMapper(tField.Name)
}
