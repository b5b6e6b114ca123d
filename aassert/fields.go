// Package aassert has assertions beyond what testify offers,
// following the conventions of testify/assert: they report through t and return whether they passed.
package aassert

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// NumFields asserts that the struct, or pointer to struct, object has expected exported fields.
// Fields of nested structs count as well, including structs behind pointers, slices, arrays, and maps.
//
// Use it next to code mapping a struct field by field, e.g. to table columns or fixtures,
// so a new field breaks the test instead of silently being dropped.
func NumFields(t *testing.T, expected int, object any, msgAndArgs ...any) bool {
	t.Helper()

	typ := reflect.TypeOf(object)
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ == nil || typ.Kind() != reflect.Struct {
		return assert.Fail(t, fmt.Sprintf("invalid argument %T, it has to be a struct", object), msgAndArgs...)
	}

	if fields := numFields(typ); fields != expected {
		t.Logf("the number of exported fields of %s changed: check every place mapping it field by field", typ)

		return assert.Fail(t, fmt.Sprintf("struct changed, it has: %d fields, expected: %d", fields, expected), msgAndArgs...)
	}

	return true
}

func numFields(typ reflect.Type) int {
	for typ.Kind() == reflect.Pointer || typ.Kind() == reflect.Slice ||
		typ.Kind() == reflect.Array || typ.Kind() == reflect.Map {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return 0
	}

	var fields int

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		fields += 1 + numFields(field.Type)
	}

	return fields
}
