package schema

// DirectiveDefinition describes an executable directive recognized by the
// request compiler.
type DirectiveDefinition struct {
	Name      string
	Arguments []*InputValue
}

// SchemaMetaFieldName is the reserved introspection meta-field. A selection
// of this name at the operation root is routed to a separate introspection
// pass instead of the compiled request tree.
const SchemaMetaFieldName = "__schema"

// TypeMetaFieldName is the reserved per-type introspection meta-field,
// routed to the introspection pass like SchemaMetaFieldName.
const TypeMetaFieldName = "__type"

// SkipDirective excludes a selection when its `if` argument is true.
var SkipDirective = &DirectiveDefinition{
	Name:      "skip",
	Arguments: []*InputValue{{Name: "if", Type: NamedType("Boolean")}},
}

// IncludeDirective excludes a selection when its `if` argument is false.
var IncludeDirective = &DirectiveDefinition{
	Name:      "include",
	Arguments: []*InputValue{{Name: "if", Type: NamedType("Boolean")}},
}
