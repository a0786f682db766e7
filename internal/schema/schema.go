package schema

// TypeDescriptor is the capability an object type must expose to have
// selections compiled against it. Implementations come from different
// schema sources (join types, extract wrappers, introspection meta types);
// the compiler depends only on this interface.
type TypeDescriptor interface {
	// Fields returns the type's field registry keyed by field name.
	Fields() FieldMap
}

// FieldMap maps field name to descriptor.
type FieldMap map[string]FieldDescriptor

// FieldDescriptor is the schema-side handle for a single field. The request
// compiler reads only the declared argument schema, the relationship target
// and the internal flag; everything else about a field belongs to the
// execution layer.
type FieldDescriptor interface {
	// ArgumentDefinitions returns the declared argument schema.
	ArgumentDefinitions() []*InputValue

	// Target returns the type the field resolves into, or nil for a leaf.
	Target() TypeDescriptor

	// IsInternal reports whether the field is hidden from direct queries.
	// Internal fields stay resolvable by name for join purposes.
	IsInternal() bool
}

// InputValue describes one declared argument.
type InputValue struct {
	Name         string
	Type         *TypeRef
	DefaultValue any
	HasDefault   bool
}

// TypeRef represents a reference to a type (can be wrapped)
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef // For List and NonNull
	Named  string   // For named types
}

type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

func NamedType(name string) *TypeRef {
	return &TypeRef{Kind: TypeRefKindNamed, Named: name}
}

func ListType(of *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeRefKindList, OfType: of}
}

func NonNullType(of *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeRefKindNonNull, OfType: of}
}

func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == TypeRefKindNonNull
}

func (t *TypeRef) IsList() bool {
	if t == nil {
		return false
	}
	if t.Kind == TypeRefKindList {
		return true
	}
	return t.Kind == TypeRefKindNonNull && t.OfType != nil && t.OfType.Kind == TypeRefKindList
}

func (t *TypeRef) Unwrap() *TypeRef {
	if t.Kind == TypeRefKindNonNull || t.Kind == TypeRefKindList {
		return t.OfType
	}
	return t
}

func (t *TypeRef) GetNamedType() string {
	current := t
	for current != nil {
		if current.Named != "" {
			return current.Named
		}
		current = current.OfType
	}
	return ""
}

func (t *TypeRef) String() string {
	switch t.Kind {
	case TypeRefKindNonNull:
		return t.OfType.String() + "!"
	case TypeRefKindList:
		return "[" + t.OfType.String() + "]"
	default:
		return t.Named
	}
}
