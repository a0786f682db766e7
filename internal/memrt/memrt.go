// Package memrt fetches join rows from in-memory slices of structs. The
// query value flowing through relationships is the slice itself; scalar
// field Attr names address exported struct fields via reflection.
package memrt

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hanpama/graphjoin/internal/join"
)

// FetchImmediates is a join.FetchFunc over a slice of structs (or pointers
// to structs). It projects one row per element with one value per selected
// attribute.
func FetchImmediates(ctx context.Context, selections []join.ImmediateSelection, query any) ([]join.Row, error) {
	if query == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(query)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("memrt: query is %T, want a slice", query)
	}

	attrs := make([]string, len(selections))
	for i, sel := range selections {
		field, ok := sel.Field.(*join.ScalarField)
		if !ok {
			return nil, fmt.Errorf("memrt: selection %d is not a scalar field", i)
		}
		attrs[i] = field.Attr
	}

	rows := make([]join.Row, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := reflect.Indirect(rv.Index(i))
		row := make(join.Row, len(attrs))
		for j, attr := range attrs {
			fv := item.FieldByName(attr)
			if !fv.IsValid() {
				return nil, fmt.Errorf("memrt: %s has no field %q", item.Type(), attr)
			}
			row[j] = fv.Interface()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
