package arepo

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/georgysavva/scany/v2/dbscan"
)

// getID reads the primary key of entity from the field idFieldName.
func getID[ID id](entity any, idFieldName string) (ID, error) { //nolint:ireturn // valid use of generics
	var id ID

	idField := reflect.ValueOf(entity).FieldByName(idFieldName)
	if !idField.IsValid() {
		return id, fmt.Errorf("%w: entity has no field %s", errIDFailed, idFieldName)
	}

	switch idField.Kind() { //nolint:exhaustive // the id constraint only allows these kinds
	case reflect.String:
		reflect.ValueOf(&id).Elem().SetString(idField.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		reflect.ValueOf(&id).Elem().SetInt(idField.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		reflect.ValueOf(&id).Elem().SetUint(idField.Uint())
	default:
		return id, fmt.Errorf("%w: type %s of %s is not supported", errIDFailed, idField.Kind(), idFieldName)
	}

	if id == *new(ID) {
		return id, fmt.Errorf("%w: missing %s", errIDFailed, idFieldName)
	}

	return id, nil
}

// tableName is the lower case type name, e.g. "country" for Country.
func tableName[E any]() string {
	return strings.ToLower(reflect.TypeFor[E]().Name())
}

type column struct {
	name  string
	index []int
	// kind of the field, pointers are dereferenced.
	kind reflect.Kind
}

// columns maps the exported fields of E to column names. Embedded structs without a db tag are flattened.
func columns[E any]() []column {
	return structColumns(reflect.TypeFor[E](), nil)
}

func structColumns(t reflect.Type, index []int) []column {
	var cols []column

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		fieldIndex := append(append([]int{}, index...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Tag.Get("db") == "" {
			cols = append(cols, structColumns(f.Type, fieldIndex)...)
			continue
		}

		name := f.Tag.Get("db")
		if name == "-" {
			continue
		}

		if name == "" {
			name = dbscan.SnakeCaseMapper(f.Name)
		}

		kind := f.Type.Kind()
		if kind == reflect.Pointer {
			kind = f.Type.Elem().Kind()
		}

		cols = append(cols, column{name: name, index: fieldIndex, kind: kind})
	}

	return cols
}

func columnNames(cols []column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.name)
	}

	return names
}

func columnValues[E any](cols []column, entity E) []any {
	v := reflect.ValueOf(entity)

	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = v.FieldByIndex(c.index).Interface()
	}

	return vals
}

// fieldByColumn returns the field of entity mapped to the column name.
func fieldByColumn(cols []column, entity reflect.Value, name string) (reflect.Value, bool) {
	name = strings.Trim(name, `"`)

	for _, c := range cols {
		if c.name == name {
			return entity.FieldByIndex(c.index), true
		}
	}

	return reflect.Value{}, false
}

func hasColumn(cols []column, name string) bool {
	_, ok := lookupColumn(cols, name)

	return ok
}

func lookupColumn(cols []column, name string) (column, bool) {
	name = strings.Trim(name, `"`)

	for _, c := range cols {
		if c.name == name {
			return c, true
		}
	}

	return column{}, false
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// columnOfField returns the column name mapped to the Go field fieldName of E.
func columnOfField[E any](cols []column, fieldName string) (string, bool) {
	f, ok := reflect.TypeFor[E]().FieldByName(fieldName)
	if !ok {
		return "", false
	}

	for _, c := range cols {
		if slices.Equal(c.index, f.Index) {
			return c.name, true
		}
	}

	return "", false
}
