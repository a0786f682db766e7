package introspection

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hanpama/graphjoin/internal/join"
	"github.com/hanpama/graphjoin/internal/language"
	"github.com/hanpama/graphjoin/internal/request"
	"github.com/hanpama/graphjoin/internal/schema"
)

// Resolver answers introspection documents for one join schema. It is
// immutable and safe for concurrent use.
type Resolver struct {
	model       *Model
	schemaField *metaField
	typeField   *metaField
}

func NewResolver(query, mutation *join.JoinType) *Resolver {
	model := buildModel(query, mutation)
	schemaField, typeField := newMetaFields(model)
	return &Resolver{model: model, schemaField: schemaField, typeField: typeField}
}

// Resolve evaluates a document whose operation selects the __schema and
// __type meta-fields, as produced by the request compiler's split, and
// returns the data to merge into the response.
func (r *Resolver) Resolve(ctx context.Context, doc *language.QueryDocument, variables map[string]any) (map[string]any, error) {
	if len(doc.Operations) != 1 {
		return nil, fmt.Errorf("introspection document contains %d operations, want 1", len(doc.Operations))
	}

	data := make(map[string]any, 1)
	for _, selection := range doc.Operations[0].SelectionSet {
		field, ok := selection.(*language.Field)
		if !ok {
			return nil, fmt.Errorf("introspection document contains a non-field selection")
		}
		var entry *metaField
		switch field.Name {
		case schema.SchemaMetaFieldName:
			entry = r.schemaField
		case schema.TypeMetaFieldName:
			entry = r.typeField
		default:
			return nil, fmt.Errorf("introspection document contains a non-meta selection %q", field.Name)
		}
		req, err := request.FromField(field, entry, doc.Fragments, variables)
		if err != nil {
			return nil, err
		}
		data[req.Key] = resolveValue(req, entry.resolve(nil, req.Args))
	}
	return data, nil
}

// resolveValue walks a compiled request over a source value. Leaves return
// the source as-is, slices fan out element-wise, and objects resolve each
// child through its meta-field resolver.
func resolveValue(req *request.Request, source any) any {
	if source == nil {
		return nil
	}
	if req.IsLeaf() {
		return source
	}
	if rv := reflect.ValueOf(source); rv.Kind() == reflect.Slice {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = resolveValue(req, rv.Index(i).Interface())
		}
		return out
	}

	out := make(map[string]any, len(req.Selections))
	for _, sel := range req.Selections {
		field := sel.Field.(*metaField)
		out[sel.Key] = resolveValue(sel, field.resolve(source, sel.Args))
	}
	return out
}
