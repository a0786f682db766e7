package introspection

import (
	"sort"

	"github.com/hanpama/graphjoin/internal/join"
	"github.com/hanpama/graphjoin/internal/schema"
)

// Model is the introspectable snapshot of a join schema: the named object
// types reachable from the roots, the scalar types they reference, and the
// recognized directives. Internal fields are absent, mirroring what direct
// queries may select.
type Model struct {
	QueryType    *Type
	MutationType *Type
	Types        []*Type
	Directives   []*Directive

	byName map[string]*Type
}

type Type struct {
	Kind   string
	Name   string
	Fields []*Field
}

type Field struct {
	Name string
	Type *schema.TypeRef
	Args []*schema.InputValue
}

type Directive struct {
	Name        string
	Description string
	Locations   []string
	Args        []*schema.InputValue
}

var executableLocations = []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}

func buildModel(query, mutation *join.JoinType) *Model {
	m := &Model{byName: map[string]*Type{}}
	if query != nil {
		m.QueryType = m.addJoinType(query)
	}
	if mutation != nil {
		m.MutationType = m.addJoinType(mutation)
	}
	m.Directives = []*Directive{
		{
			Name:        schema.SkipDirective.Name,
			Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
			Locations:   executableLocations,
			Args:        schema.SkipDirective.Arguments,
		},
		{
			Name:        schema.IncludeDirective.Name,
			Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
			Locations:   executableLocations,
			Args:        schema.IncludeDirective.Arguments,
		},
	}
	sort.Slice(m.Types, func(i, j int) bool { return m.Types[i].Name < m.Types[j].Name })
	return m
}

func (m *Model) addJoinType(jt *join.JoinType) *Type {
	if t, ok := m.byName[jt.Name()]; ok {
		return t
	}
	t := &Type{Kind: "OBJECT", Name: jt.Name()}
	m.byName[t.Name] = t
	m.Types = append(m.Types, t)

	registry := jt.Fields()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fd := registry[name]
		if fd.IsInternal() {
			continue
		}
		ref := join.TypeOf(fd)
		t.Fields = append(t.Fields, &Field{Name: name, Type: ref, Args: fd.ArgumentDefinitions()})
		if rel, ok := fd.(*join.Relationship); ok {
			if target := rel.TargetType(); target != nil {
				m.addJoinType(target)
			}
		}
		m.addReferenced(ref)
		for _, arg := range fd.ArgumentDefinitions() {
			m.addReferenced(arg.Type)
		}
	}
	return t
}

// addReferenced registers the named leaf of a type reference as a scalar
// unless an object type of that name is already known.
func (m *Model) addReferenced(ref *schema.TypeRef) {
	if ref == nil {
		return
	}
	name := ref.GetNamedType()
	if name == "" {
		return
	}
	if _, ok := m.byName[name]; ok {
		return
	}
	t := &Type{Kind: "SCALAR", Name: name}
	m.byName[name] = t
	m.Types = append(m.Types, t)
}

func (m *Model) typeNamed(name string) *Type { return m.byName[name] }
