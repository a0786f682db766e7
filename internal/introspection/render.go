package introspection

import (
	"strings"

	"github.com/hanpama/graphjoin/internal/join"
	"github.com/hanpama/graphjoin/internal/schema"
)

var builtinScalars = map[string]bool{
	"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
}

// RenderSchema renders the SDL of a join schema as introspection sees it:
// internal fields hidden, type and field names sorted.
func RenderSchema(query, mutation *join.JoinType) string {
	return Render(buildModel(query, mutation))
}

// Render produces SDL from the model.
// Type names come pre-sorted from the model; built-in scalars and the
// standard directives are omitted.
func Render(m *Model) string {
	var b strings.Builder

	if m.QueryType != nil || m.MutationType != nil {
		b.WriteString("schema {\n")
		if m.QueryType != nil {
			b.WriteString("  query: ")
			b.WriteString(m.QueryType.Name)
			b.WriteString("\n")
		}
		if m.MutationType != nil {
			b.WriteString("  mutation: ")
			b.WriteString(m.MutationType.Name)
			b.WriteString("\n")
		}
		b.WriteString("}\n\n")
	}

	for _, typ := range m.Types {
		switch typ.Kind {
		case "SCALAR":
			if builtinScalars[typ.Name] {
				continue
			}
			b.WriteString("scalar ")
			b.WriteString(typ.Name)
			b.WriteString("\n\n")
		case "OBJECT":
			renderObject(&b, typ)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderObject(b *strings.Builder, typ *Type) {
	b.WriteString("type ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, field := range typ.Fields {
		b.WriteString("  ")
		b.WriteString(field.Name)
		renderArgs(b, field.Args)
		b.WriteString(": ")
		b.WriteString(field.Type.String())
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderArgs(b *strings.Builder, args []*schema.InputValue) {
	if len(args) == 0 {
		return
	}
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(": ")
		b.WriteString(arg.Type.String())
		if def, ok := renderDefault(arg).(string); ok {
			b.WriteString(" = ")
			b.WriteString(def)
		}
	}
	b.WriteString(")")
}
