package join

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hanpama/graphjoin/internal/eventbus"
	"github.com/hanpama/graphjoin/internal/events"
	"github.com/hanpama/graphjoin/internal/request"
	"github.com/hanpama/graphjoin/internal/schema"
)

// Row is one fetched tuple: one immediate value per requested selection,
// followed by one value per join selection.
type Row []any

// ImmediateSelection is a single column a fetcher must produce: a scalar
// field plus its bound arguments.
type ImmediateSelection struct {
	Field schema.FieldDescriptor
	Args  map[string]any
}

// FetchFunc produces the immediate rows of a join type for the given
// selections. The query value is whatever the enclosing relationship's
// BuildQuery produced, nil at the root.
type FetchFunc func(ctx context.Context, selections []ImmediateSelection, query any) ([]Row, error)

// Result is one fetched object: its resolved output value (a map keyed by
// output key, or a bare value under an extract projection) plus the
// join-key values the parent uses to claim it.
type Result struct {
	Value      any
	JoinValues Row
}

// Source is a fetchable join target.
type Source interface {
	schema.TypeDescriptor

	// joinFields resolves join-key names for incoming relationships.
	joinFields() schema.FieldMap

	// namedType returns the underlying named join type, nil when the source
	// resolves to a scalar projection.
	namedType() *JoinType

	// Fetch resolves a compiled request against the source.
	Fetch(ctx context.Context, req *request.Request, query any) ([]Result, error)
}

// fieldVariant is implemented by every field kind the engine can resolve.
type fieldVariant interface {
	schema.FieldDescriptor

	// immediateSelections lists the columns the parent fetch must include
	// for this field: the field itself for scalars, the parent-side join
	// keys for relationships.
	immediateSelections(parent *JoinType, req *request.Request) ([]ImmediateSelection, error)

	// reader performs any per-field fetching and returns a function mapping
	// the field's slice of a parent row to its output value.
	reader(ctx context.Context, req *request.Request, parentQuery any) (readerFunc, error)
}

type readerFunc func(immediates Row) (any, error)

// JoinType is a named object type backed by a single batched fetcher.
type JoinType struct {
	name     string
	fetch    FetchFunc
	generate func() schema.FieldMap

	once   sync.Once
	fields schema.FieldMap
}

// NewJoinType creates a join type. The field map is generated lazily on
// first use so mutually recursive types can reference each other.
func NewJoinType(name string, fetch FetchFunc, fields func() schema.FieldMap) *JoinType {
	return &JoinType{name: name, fetch: fetch, generate: fields}
}

// NewRootJoinType creates a synthetic root type: its fetcher yields a single
// empty row, so its fields (typically relationships) resolve exactly once.
func NewRootJoinType(name string, fields func() schema.FieldMap) *JoinType {
	return NewJoinType(name, fetchSingleEmptyRow, fields)
}

func fetchSingleEmptyRow(context.Context, []ImmediateSelection, any) ([]Row, error) {
	return []Row{{}}, nil
}

func (t *JoinType) Name() string { return t.name }

// Fields returns the type's field registry, including internal fields; the
// request compiler is responsible for rejecting direct selections of those.
func (t *JoinType) Fields() schema.FieldMap {
	t.once.Do(func() { t.fields = t.generate() })
	return t.fields
}

func (t *JoinType) joinFields() schema.FieldMap { return t.Fields() }

func (t *JoinType) namedType() *JoinType { return t }

// Fetch resolves a compiled request against the join type: one call to the
// fetcher for all immediate columns, then one reader per selection to stitch
// relationship results onto each row.
func (t *JoinType) Fetch(ctx context.Context, req *request.Request, query any) ([]Result, error) {
	immediates := make([]ImmediateSelection, 0, len(req.Selections)+len(req.JoinSelections))
	ranges := make([][2]int, len(req.Selections))
	variants := make([]fieldVariant, len(req.Selections))

	for i, sel := range req.Selections {
		variant, ok := sel.Field.(fieldVariant)
		if !ok {
			return nil, fmt.Errorf("join type %s: field %q is not resolvable by the join engine", t.name, sel.Key)
		}
		variants[i] = variant
		cols, err := variant.immediateSelections(t, sel)
		if err != nil {
			return nil, fmt.Errorf("join type %s: field %q: %w", t.name, sel.Key, err)
		}
		ranges[i] = [2]int{len(immediates), len(immediates) + len(cols)}
		immediates = append(immediates, cols...)
	}
	for _, fd := range req.JoinSelections {
		immediates = append(immediates, ImmediateSelection{Field: fd, Args: map[string]any{}})
	}

	start := time.Now()
	eventbus.Publish(ctx, events.FetchStart{Type: t.name, Selections: len(immediates)})
	rows, err := t.fetch(ctx, immediates, query)
	eventbus.Publish(ctx, events.FetchFinish{Type: t.name, Selections: len(immediates), Rows: len(rows), Err: err, Duration: time.Since(start)})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t.name, err)
	}

	readers := make([]readerFunc, len(req.Selections))
	for i, sel := range req.Selections {
		read, err := variants[i].reader(ctx, sel, query)
		if err != nil {
			return nil, err
		}
		readers[i] = read
	}

	joinOffset := len(immediates) - len(req.JoinSelections)
	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(immediates) {
			return nil, fmt.Errorf("fetch %s: row has %d values, want %d", t.name, len(row), len(immediates))
		}
		value := make(map[string]any, len(req.Selections))
		for i, sel := range req.Selections {
			v, err := readers[i](row[ranges[i][0]:ranges[i][1]])
			if err != nil {
				return nil, fmt.Errorf("join type %s: field %q: %w", t.name, sel.Key, err)
			}
			value[sel.Key] = v
		}
		results = append(results, Result{Value: value, JoinValues: Row(row[joinOffset:])})
	}
	return results, nil
}

// joinKey folds a tuple of join values into a map key.
func joinKey(values Row) string {
	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "%v\x1f", v)
	}
	return b.String()
}
