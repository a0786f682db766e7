// Package request compiles a parsed GraphQL query document into a canonical
// request tree: an ordered, deduplicated, flattened representation of the
// fields to fetch, consumed by the batched join execution engine.
//
// Compilation locates the single operation of the document, picks the query
// or mutation root, then recurses selection set by selection set: directives
// decide participation, fragment spreads and inline fragments are expanded
// in place, same-key selections are merged preserving first-seen order, and
// each merged field's arguments are coerced against its declared argument
// schema. Top-level selections of the __schema and __type meta-fields are
// split into a separate introspection-only document so they can be resolved
// independently.
//
// The compiler is a pure tree transformation: it only reads the document,
// the variable bindings and the schema field registries, and every call
// allocates a fresh tree. Failures are *Error values classified by kind;
// any failure aborts the whole document.
package request
