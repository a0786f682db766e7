package request

import (
	"github.com/hanpama/graphjoin/internal/language"
	"github.com/hanpama/graphjoin/internal/schema"
)

// DocumentRequest pairs the compiled request tree of a query document with
// an optional introspection-only document derived from it.
type DocumentRequest struct {
	// Query is the compiled request tree for the data portion of the
	// document.
	Query *Request

	// SchemaQuery is a document whose operation selects only the reserved
	// __schema and __type meta-fields, sharing the original fragment
	// definitions. It is nil when the document has no introspection
	// selection.
	SchemaQuery *language.QueryDocument
}

// Request is one resolved field occurrence in the compiled tree.
type Request struct {
	// Key is the output key the field's result appears under: the alias if
	// given, else the field name. Empty for the synthetic document root.
	Key string

	// Field is the schema-side descriptor, nil at the synthetic root.
	Field schema.FieldDescriptor

	// Args maps declared argument names to coerced values.
	Args map[string]any

	// Selections are the merged child requests in first-seen order. Nil for
	// a leaf field.
	Selections []*Request

	// JoinSelections is left empty by compilation; the execution engine
	// fills it with the hidden key fields a batched join needs.
	JoinSelections []schema.FieldDescriptor
}

// IsLeaf reports whether the request has no selection set.
func (r *Request) IsLeaf() bool { return r.Selections == nil }

// WithJoinSelections returns a copy of r carrying the given join-key
// descriptors. The receiver is not modified.
func (r *Request) WithJoinSelections(fields ...schema.FieldDescriptor) *Request {
	cp := *r
	cp.JoinSelections = fields
	return &cp
}

// FromDocument compiles a parsed query document against the given root
// types. The document must contain exactly one operation definition; the
// mutation root is used when that operation is a mutation. Top-level
// selections of the __schema and __type meta-fields are split into
// DocumentRequest.SchemaQuery and excluded from the compiled tree.
func FromDocument(
	doc *language.QueryDocument,
	queryRoot, mutationRoot schema.TypeDescriptor,
	variables map[string]any,
) (*DocumentRequest, error) {
	switch {
	case len(doc.Operations) == 0:
		return nil, errorf(ErrNoOperation, "", "document contains no operation definition")
	case len(doc.Operations) > 1:
		return nil, errorf(ErrMultipleOperations, "", "document contains %d operation definitions, want exactly one", len(doc.Operations))
	}
	operation := doc.Operations[0]

	root := queryRoot
	if operation.Operation == language.Mutation {
		root = mutationRoot
	}

	query, err := FromOperation(operation, doc.Fragments, root, variables)
	if err != nil {
		return nil, err
	}

	return &DocumentRequest{
		Query:       query,
		SchemaQuery: splitSchemaQuery(doc, operation),
	}, nil
}

// FromOperation compiles an operation's selection set against a root type.
// The resulting request is the synthetic document root: no key, no field
// descriptor, empty arguments.
func FromOperation(
	operation *language.OperationDefinition,
	fragments language.FragmentDefinitionList,
	root schema.TypeDescriptor,
	variables map[string]any,
) (*Request, error) {
	selections, err := buildSelections(operation.SelectionSet, root, variables, fragments)
	if err != nil {
		return nil, err
	}
	return &Request{Args: map[string]any{}, Selections: selections}, nil
}

// splitSchemaQuery builds the introspection-only sibling document. The
// original document is never mutated: the new document shares the fragment
// definitions and holds a fresh operation whose selection set is reduced to
// the top-level meta-field selections, in document order.
func splitSchemaQuery(doc *language.QueryDocument, operation *language.OperationDefinition) *language.QueryDocument {
	var metaSelections language.SelectionSet
	for _, selection := range operation.SelectionSet {
		if field, ok := selection.(*language.Field); ok && isMetaFieldName(field.Name) {
			metaSelections = append(metaSelections, field)
		}
	}
	if metaSelections == nil {
		return nil
	}

	schemaOperation := *operation
	schemaOperation.SelectionSet = metaSelections

	return &language.QueryDocument{
		Operations: language.OperationList{&schemaOperation},
		Fragments:  doc.Fragments,
		Position:   doc.Position,
	}
}

// FromField compiles a single field occurrence against its descriptor,
// bypassing the reserved-name routing of FromDocument. The introspection
// pass uses it to compile the split-off __schema selection against the meta
// schema.
func FromField(
	field *language.Field,
	descriptor schema.FieldDescriptor,
	fragments language.FragmentDefinitionList,
	variables map[string]any,
) (*Request, error) {
	return fromField(field, descriptor, variables, fragments)
}

// fromField builds the request for one merged field occurrence.
func fromField(
	field *language.Field,
	descriptor schema.FieldDescriptor,
	variables map[string]any,
	fragments language.FragmentDefinitionList,
) (*Request, error) {
	args, err := bindArguments(descriptor, field.Arguments, variables)
	if err != nil {
		return nil, err
	}

	target := descriptor.Target()
	if field.SelectionSet != nil && target == nil {
		return nil, errorf(ErrUnknownField, field.Name, "cannot query subfields of leaf field %q", field.Name)
	}

	selections, err := buildSelections(field.SelectionSet, target, variables, fragments)
	if err != nil {
		return nil, err
	}

	return &Request{
		Key:        responseKey(field),
		Field:      descriptor,
		Args:       args,
		Selections: selections,
	}, nil
}

// buildSelections expands, filters and merges a selection set, then recurses
// into each merged field against the target type's field registry. A nil
// selection set yields nil (leaf).
func buildSelections(
	selectionSet language.SelectionSet,
	target schema.TypeDescriptor,
	variables map[string]any,
	fragments language.FragmentDefinitionList,
) ([]*Request, error) {
	if selectionSet == nil {
		return nil, nil
	}

	registry := target.Fields()

	collected, err := collectFields(selectionSet, variables, fragments)
	if err != nil {
		return nil, err
	}

	merged := mergeFields(collected)

	selections := make([]*Request, 0, len(merged))
	for _, field := range merged {
		if isMetaFieldName(field.Name) {
			// Routed to the introspection pass by FromDocument.
			continue
		}
		descriptor, ok := registry[field.Name]
		if !ok || descriptor.IsInternal() {
			return nil, errorf(ErrUnknownField, field.Name, "cannot query field %q", field.Name)
		}
		selection, err := fromField(field, descriptor, variables, fragments)
		if err != nil {
			return nil, err
		}
		selections = append(selections, selection)
	}
	return selections, nil
}

func isMetaFieldName(name string) bool {
	return name == schema.SchemaMetaFieldName || name == schema.TypeMetaFieldName
}

func responseKey(field *language.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}
