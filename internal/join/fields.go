package join

import (
	"context"
	"fmt"

	"github.com/hanpama/graphjoin/internal/request"
	"github.com/hanpama/graphjoin/internal/schema"
)

// ScalarField is a leaf read directly from fetched rows. Attr names the
// source-side attribute (column, struct field) fetchers project it from.
type ScalarField struct {
	Type *schema.TypeRef
	Attr string
	Args []*schema.InputValue
}

func (f *ScalarField) ArgumentDefinitions() []*schema.InputValue { return f.Args }
func (f *ScalarField) Target() schema.TypeDescriptor             { return nil }
func (f *ScalarField) IsInternal() bool                          { return false }

func (f *ScalarField) immediateSelections(parent *JoinType, req *request.Request) ([]ImmediateSelection, error) {
	return []ImmediateSelection{{Field: req.Field, Args: req.Args}}, nil
}

func (f *ScalarField) reader(ctx context.Context, req *request.Request, parentQuery any) (readerFunc, error) {
	return func(immediates Row) (any, error) { return immediates[0], nil }, nil
}

// Condition equates a parent-side field with a target-side field; rows are
// stitched together when all conditions of a relationship hold.
type Condition struct {
	ParentField string
	TargetField string
}

// BuildQueryFunc derives the target query of a relationship from the bound
// field arguments and the parent's query value.
type BuildQueryFunc func(ctx context.Context, args map[string]any, parentQuery any) (any, error)

type relationshipKind int

const (
	relSingle relationshipKind = iota
	relSingleOrNull
	relFirstOrNull
	relMany
)

// Relationship links a parent join type to a target source. The engine
// fetches the target once per request tree node and distributes the results
// to parent rows by the join conditions.
type Relationship struct {
	target     Source
	buildQuery BuildQueryFunc
	kind       relationshipKind
	conditions []Condition
	args       []*schema.InputValue
	internal   bool
}

type RelationshipOption func(*Relationship)

// On adds a join condition pairing a parent field with a target field.
// Conditions apply in the order given.
func On(parentField, targetField string) RelationshipOption {
	return func(r *Relationship) {
		r.conditions = append(r.conditions, Condition{ParentField: parentField, TargetField: targetField})
	}
}

// WithArguments declares the relationship's argument schema.
func WithArguments(defs ...*schema.InputValue) RelationshipOption {
	return func(r *Relationship) { r.args = append(r.args, defs...) }
}

// Internal hides the relationship from direct queries while keeping it
// resolvable by name for joins and extracts.
func Internal() RelationshipOption {
	return func(r *Relationship) { r.internal = true }
}

func newRelationship(target Source, build BuildQueryFunc, kind relationshipKind, opts []RelationshipOption) *Relationship {
	r := &Relationship{target: target, buildQuery: build, kind: kind}
	for _, opt := range opts {
		opt(r)
	}
	if r.buildQuery == nil {
		r.buildQuery = func(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
			return parentQuery, nil
		}
	}
	return r
}

// Single expects exactly one target row per parent row.
func Single(target Source, build BuildQueryFunc, opts ...RelationshipOption) *Relationship {
	return newRelationship(target, build, relSingle, opts)
}

// SingleOrNull expects at most one target row per parent row.
func SingleOrNull(target Source, build BuildQueryFunc, opts ...RelationshipOption) *Relationship {
	return newRelationship(target, build, relSingleOrNull, opts)
}

// FirstOrNull takes the first target row per parent row, if any.
func FirstOrNull(target Source, build BuildQueryFunc, opts ...RelationshipOption) *Relationship {
	return newRelationship(target, build, relFirstOrNull, opts)
}

// Many yields every matching target row per parent row.
func Many(target Source, build BuildQueryFunc, opts ...RelationshipOption) *Relationship {
	return newRelationship(target, build, relMany, opts)
}

func (r *Relationship) ArgumentDefinitions() []*schema.InputValue { return r.args }
func (r *Relationship) Target() schema.TypeDescriptor             { return r.target }
func (r *Relationship) IsInternal() bool                          { return r.internal }

// TargetType returns the named join type the relationship resolves into,
// nil for scalar extracts.
func (r *Relationship) TargetType() *JoinType { return r.target.namedType() }

func (r *Relationship) immediateSelections(parent *JoinType, req *request.Request) ([]ImmediateSelection, error) {
	fields := parent.Fields()
	cols := make([]ImmediateSelection, len(r.conditions))
	for i, cond := range r.conditions {
		fd, ok := fields[cond.ParentField]
		if !ok {
			return nil, fmt.Errorf("join condition references unknown parent field %q", cond.ParentField)
		}
		cols[i] = ImmediateSelection{Field: fd, Args: map[string]any{}}
	}
	return cols, nil
}

func (r *Relationship) reader(ctx context.Context, req *request.Request, parentQuery any) (readerFunc, error) {
	query, err := r.buildQuery(ctx, req.Args, parentQuery)
	if err != nil {
		return nil, err
	}

	joinFields := r.target.joinFields()
	keys := make([]schema.FieldDescriptor, len(r.conditions))
	for i, cond := range r.conditions {
		fd, ok := joinFields[cond.TargetField]
		if !ok {
			return nil, fmt.Errorf("join condition references unknown target field %q", cond.TargetField)
		}
		keys[i] = fd
	}

	results, err := r.target.Fetch(ctx, req.WithJoinSelections(keys...), query)
	if err != nil {
		return nil, err
	}

	indexed := make(map[string][]any, len(results))
	for _, result := range results {
		key := joinKey(result.JoinValues)
		indexed[key] = append(indexed[key], result.Value)
	}

	return func(immediates Row) (any, error) {
		return r.kind.process(indexed[joinKey(immediates)])
	}, nil
}

func (k relationshipKind) process(values []any) (any, error) {
	switch k {
	case relSingle:
		if len(values) != 1 {
			return nil, fmt.Errorf("expected 1 value but got %d", len(values))
		}
		return values[0], nil
	case relSingleOrNull:
		switch len(values) {
		case 0:
			return nil, nil
		case 1:
			return values[0], nil
		default:
			return nil, fmt.Errorf("expected up to 1 value but got %d", len(values))
		}
	case relFirstOrNull:
		if len(values) == 0 {
			return nil, nil
		}
		return values[0], nil
	default:
		if values == nil {
			return []any{}, nil
		}
		return values, nil
	}
}

// Extract projects a relationship to a single field of its target: the
// parent sees a list (or single value) of that field instead of objects.
// The projection is never internal even when the underlying relationship is.
func Extract(rel *Relationship, fieldName string) *Relationship {
	cp := *rel
	cp.target = &extractSource{source: rel.target, fieldName: fieldName}
	cp.internal = false
	return &cp
}

// extractSource wraps a source so that fetching it yields one field's value
// per row instead of an output map.
type extractSource struct {
	source    Source
	fieldName string
}

func (e *extractSource) field() schema.FieldDescriptor {
	return e.source.Fields()[e.fieldName]
}

func (e *extractSource) Fields() schema.FieldMap {
	fd := e.field()
	if fd == nil {
		return nil
	}
	if target := fd.Target(); target != nil {
		return target.Fields()
	}
	return nil
}

func (e *extractSource) joinFields() schema.FieldMap { return e.source.joinFields() }

func (e *extractSource) namedType() *JoinType {
	fd := e.field()
	if rel, ok := fd.(*Relationship); ok {
		return rel.TargetType()
	}
	return nil
}

func (e *extractSource) Fetch(ctx context.Context, req *request.Request, query any) ([]Result, error) {
	fd := e.field()
	if fd == nil {
		return nil, fmt.Errorf("extract references unknown field %q", e.fieldName)
	}

	fieldReq := &request.Request{
		Key:        e.fieldName,
		Field:      fd,
		Args:       map[string]any{},
		Selections: req.Selections,
	}
	wrapped := &request.Request{
		Key:            req.Key,
		Field:          req.Field,
		Args:           req.Args,
		Selections:     []*request.Request{fieldReq},
		JoinSelections: req.JoinSelections,
	}

	results, err := e.source.Fetch(ctx, wrapped, query)
	if err != nil {
		return nil, err
	}
	out := make([]Result, len(results))
	for i, result := range results {
		value := result.Value.(map[string]any)[e.fieldName]
		out[i] = Result{Value: value, JoinValues: result.JoinValues}
	}
	return out, nil
}
