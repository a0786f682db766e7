package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/hanpama/graphjoin/internal/introspection"
	"github.com/hanpama/graphjoin/internal/join"
	"github.com/hanpama/graphjoin/internal/language"
	"github.com/hanpama/graphjoin/internal/request"
	"github.com/hanpama/graphjoin/internal/schema"
)

// Schema holds the root join types of an executable schema.
type Schema struct {
	Query    *join.JoinType
	Mutation *join.JoinType
}

type Executor struct {
	schema *Schema
	intro  *introspection.Resolver
}

type Option func(*Executor)

// WithoutIntrospection disables the introspection pass; __schema and
// __type selections then fail instead of resolving.
func WithoutIntrospection() Option {
	return func(e *Executor) { e.intro = nil }
}

func New(sch *Schema, opts ...Option) *Executor {
	e := &Executor{
		schema: sch,
		intro:  introspection.NewResolver(sch.Query, sch.Mutation),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteRequest compiles and runs one parsed document. Compilation and
// fetch errors abort the whole request; there is no partial response data.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	doc *language.QueryDocument,
	variables map[string]any,
) *ExecutionResult {
	root, err := e.rootFor(doc)
	if err != nil {
		return errorResult(err)
	}

	var queryRoot, mutationRoot schema.TypeDescriptor
	if e.schema.Query != nil {
		queryRoot = e.schema.Query
	}
	if e.schema.Mutation != nil {
		mutationRoot = e.schema.Mutation
	}

	dr, err := request.FromDocument(doc, queryRoot, mutationRoot, variables)
	if err != nil {
		return errorResult(err)
	}

	results, err := root.Fetch(ctx, dr.Query, nil)
	if err != nil {
		return errorResult(err)
	}
	if len(results) != 1 {
		return errorResult(fmt.Errorf("root fetch produced %d rows, want 1", len(results)))
	}
	data := results[0].Value.(map[string]any)

	if dr.SchemaQuery != nil {
		if e.intro == nil {
			return errorResult(fmt.Errorf("introspection is not enabled"))
		}
		introData, err := e.intro.Resolve(ctx, dr.SchemaQuery, variables)
		if err != nil {
			return errorResult(err)
		}
		for key, value := range introData {
			data[key] = value
		}
	}

	return &ExecutionResult{Data: data}
}

func (e *Executor) rootFor(doc *language.QueryDocument) (*join.JoinType, error) {
	if len(doc.Operations) == 1 && doc.Operations[0].Operation == language.Mutation {
		if e.schema.Mutation == nil {
			return nil, fmt.Errorf("schema is not configured for mutations")
		}
		return e.schema.Mutation, nil
	}
	if e.schema.Query == nil {
		return nil, fmt.Errorf("schema is not configured for queries")
	}
	// Operation-count violations surface from compilation.
	return e.schema.Query, nil
}

func errorResult(err error) *ExecutionResult {
	ge := GraphQLError{Message: err.Error()}
	var ce *request.Error
	if errors.As(err, &ce) {
		ge.Extensions = map[string]any{"code": string(ce.Kind)}
	}
	return &ExecutionResult{Errors: []GraphQLError{ge}}
}
