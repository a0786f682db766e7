package introspection

import (
	"fmt"
	"strconv"

	"github.com/hanpama/graphjoin/internal/schema"
)

// metaType and metaField describe the introspection meta schema (__Schema,
// __Type, __Field, __InputValue, __EnumValue, __Directive) as descriptors
// the request compiler can compile client selections against. Each field
// carries its own resolver; sources are the Model value and its parts, with
// bare *schema.TypeRef values standing in for wrapper types.
type metaType struct {
	fields schema.FieldMap
}

func (t *metaType) Fields() schema.FieldMap { return t.fields }

type metaField struct {
	args    []*schema.InputValue
	target  *metaType
	resolve func(source any, args map[string]any) any
}

func (f *metaField) ArgumentDefinitions() []*schema.InputValue { return f.args }

func (f *metaField) Target() schema.TypeDescriptor {
	if f.target == nil {
		return nil
	}
	return f.target
}

func (f *metaField) IsInternal() bool { return false }

func nullLeaf() *metaField {
	return &metaField{resolve: func(any, map[string]any) any { return nil }}
}

func includeDeprecatedArg() []*schema.InputValue {
	return []*schema.InputValue{{
		Name:         "includeDeprecated",
		Type:         schema.NamedType("Boolean"),
		DefaultValue: false,
		HasDefault:   true,
	}}
}

// newMetaFields builds the __schema and __type entry fields over a model.
// The two share one meta type graph so either entry point reaches the same
// __Type descriptors.
func newMetaFields(m *Model) (schemaField, typeField *metaField) {
	typeType := &metaType{}
	fieldType := &metaType{}
	inputValueType := &metaType{}
	enumValueType := &metaType{}
	directiveType := &metaType{}

	// typeValue normalizes a type reference: named references resolve to
	// the model's *Type, wrappers stay as *schema.TypeRef.
	typeValue := func(ref *schema.TypeRef) any {
		if ref == nil {
			return nil
		}
		if ref.Kind == schema.TypeRefKindNamed {
			if t := m.typeNamed(ref.Named); t != nil {
				return t
			}
			return &Type{Kind: "SCALAR", Name: ref.Named}
		}
		return ref
	}

	typeType.fields = schema.FieldMap{
		"kind": &metaField{resolve: func(source any, _ map[string]any) any {
			switch v := source.(type) {
			case *Type:
				return v.Kind
			case *schema.TypeRef:
				if v.IsNonNull() {
					return "NON_NULL"
				}
				return "LIST"
			}
			return nil
		}},
		"name": &metaField{resolve: func(source any, _ map[string]any) any {
			if t, ok := source.(*Type); ok {
				return t.Name
			}
			return nil
		}},
		"description":    nullLeaf(),
		"specifiedByURL": nullLeaf(),
		"fields": &metaField{target: fieldType, args: includeDeprecatedArg(), resolve: func(source any, _ map[string]any) any {
			if t, ok := source.(*Type); ok && t.Kind == "OBJECT" {
				return t.Fields
			}
			return nil
		}},
		"interfaces": &metaField{target: typeType, resolve: func(source any, _ map[string]any) any {
			if t, ok := source.(*Type); ok && t.Kind == "OBJECT" {
				return []any{}
			}
			return nil
		}},
		"possibleTypes": &metaField{target: typeType, resolve: func(any, map[string]any) any { return nil }},
		"enumValues": &metaField{target: enumValueType, args: includeDeprecatedArg(), resolve: func(any, map[string]any) any {
			return nil
		}},
		"inputFields": &metaField{target: inputValueType, resolve: func(any, map[string]any) any { return nil }},
		"ofType": &metaField{target: typeType, resolve: func(source any, _ map[string]any) any {
			if ref, ok := source.(*schema.TypeRef); ok {
				return typeValue(ref.OfType)
			}
			return nil
		}},
	}

	fieldType.fields = schema.FieldMap{
		"name": &metaField{resolve: func(source any, _ map[string]any) any {
			return source.(*Field).Name
		}},
		"description": nullLeaf(),
		"args": &metaField{target: inputValueType, args: includeDeprecatedArg(), resolve: func(source any, _ map[string]any) any {
			args := source.(*Field).Args
			if args == nil {
				return []any{}
			}
			return args
		}},
		"type": &metaField{target: typeType, resolve: func(source any, _ map[string]any) any {
			return typeValue(source.(*Field).Type)
		}},
		"isDeprecated":      &metaField{resolve: func(any, map[string]any) any { return false }},
		"deprecationReason": nullLeaf(),
	}

	inputValueType.fields = schema.FieldMap{
		"name": &metaField{resolve: func(source any, _ map[string]any) any {
			return source.(*schema.InputValue).Name
		}},
		"description": nullLeaf(),
		"type": &metaField{target: typeType, resolve: func(source any, _ map[string]any) any {
			return typeValue(source.(*schema.InputValue).Type)
		}},
		"defaultValue": &metaField{resolve: func(source any, _ map[string]any) any {
			return renderDefault(source.(*schema.InputValue))
		}},
		"isDeprecated":      &metaField{resolve: func(any, map[string]any) any { return false }},
		"deprecationReason": nullLeaf(),
	}

	enumValueType.fields = schema.FieldMap{
		"name":              nullLeaf(),
		"description":       nullLeaf(),
		"isDeprecated":      &metaField{resolve: func(any, map[string]any) any { return false }},
		"deprecationReason": nullLeaf(),
	}

	directiveType.fields = schema.FieldMap{
		"name": &metaField{resolve: func(source any, _ map[string]any) any {
			return source.(*Directive).Name
		}},
		"description": &metaField{resolve: func(source any, _ map[string]any) any {
			return source.(*Directive).Description
		}},
		"locations": &metaField{resolve: func(source any, _ map[string]any) any {
			return source.(*Directive).Locations
		}},
		"args": &metaField{target: inputValueType, args: includeDeprecatedArg(), resolve: func(source any, _ map[string]any) any {
			return source.(*Directive).Args
		}},
		"isRepeatable": &metaField{resolve: func(any, map[string]any) any { return false }},
	}

	schemaType := &metaType{fields: schema.FieldMap{
		"description": nullLeaf(),
		"queryType": &metaField{target: typeType, resolve: func(any, map[string]any) any {
			if m.QueryType == nil {
				return nil
			}
			return m.QueryType
		}},
		"mutationType": &metaField{target: typeType, resolve: func(any, map[string]any) any {
			if m.MutationType == nil {
				return nil
			}
			return m.MutationType
		}},
		"subscriptionType": &metaField{target: typeType, resolve: func(any, map[string]any) any { return nil }},
		"types": &metaField{target: typeType, resolve: func(any, map[string]any) any {
			return m.Types
		}},
		"directives": &metaField{target: directiveType, resolve: func(any, map[string]any) any {
			return m.Directives
		}},
	}}

	schemaField = &metaField{
		target:  schemaType,
		resolve: func(any, map[string]any) any { return m },
	}
	typeField = &metaField{
		target: typeType,
		args: []*schema.InputValue{{
			Name: "name",
			Type: schema.NonNullType(schema.NamedType("String")),
		}},
		resolve: func(_ any, args map[string]any) any {
			name, _ := args["name"].(string)
			if t := m.typeNamed(name); t != nil {
				return t
			}
			return nil
		},
	}
	return schemaField, typeField
}

// renderDefault prints a declared default as a GraphQL literal string, the
// form introspection clients expect.
func renderDefault(v *schema.InputValue) any {
	if !v.HasDefault || v.DefaultValue == nil {
		return nil
	}
	switch d := v.DefaultValue.(type) {
	case string:
		return strconv.Quote(d)
	case bool:
		return strconv.FormatBool(d)
	default:
		return fmt.Sprintf("%v", d)
	}
}
