package join

import "github.com/hanpama/graphjoin/internal/schema"

// TypeOf derives the response type of a field as exposed by introspection.
// Join types are non-null; relationship cardinality adds the list and null
// wrappers the way the response shapes them.
func TypeOf(fd schema.FieldDescriptor) *schema.TypeRef {
	switch f := fd.(type) {
	case *ScalarField:
		return f.Type
	case *Relationship:
		return f.kind.wrap(f.targetTypeRef())
	default:
		return nil
	}
}

func (r *Relationship) targetTypeRef() *schema.TypeRef {
	switch t := r.target.(type) {
	case *JoinType:
		return schema.NonNullType(schema.NamedType(t.name))
	case *extractSource:
		return TypeOf(t.field())
	default:
		return nil
	}
}

func (k relationshipKind) wrap(ref *schema.TypeRef) *schema.TypeRef {
	if ref == nil {
		return nil
	}
	switch k {
	case relMany:
		return schema.NonNullType(schema.ListType(ref))
	case relSingle:
		return ref
	default:
		// At-most-one cardinalities strip the non-null wrapper.
		if ref.IsNonNull() {
			return ref.OfType
		}
		return ref
	}
}
