// Package introspection answers the introspection-only document the request
// compiler splits off a query. The join schema is snapshotted into a model
// of named types, the introspection meta schema is expressed as descriptors
// the same compiler can compile client selections against, and a small
// resolver walk evaluates the compiled tree over the model.
package introspection
