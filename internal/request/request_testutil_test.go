package request

import (
	"testing"

	"github.com/hanpama/graphjoin/internal/language"
	"github.com/hanpama/graphjoin/internal/schema"
)

func mustParseQuery(t *testing.T, source string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(source)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	return doc
}

// testType and testField are a minimal schema source for compiler tests.
type testType struct {
	fields schema.FieldMap
}

func (t *testType) Fields() schema.FieldMap { return t.fields }

type testField struct {
	args     []*schema.InputValue
	target   schema.TypeDescriptor
	internal bool
}

func (f *testField) ArgumentDefinitions() []*schema.InputValue { return f.args }
func (f *testField) Target() schema.TypeDescriptor             { return f.target }
func (f *testField) IsInternal() bool                          { return f.internal }

func leaf() *testField { return &testField{} }

// bookstoreSchema builds the root type used across the compiler tests:
//
//	Root:   books(genre: String, first: Int = 10): [Book]
//	        book(id: Int!): Book
//	        a, b, c: leaves
//	        audit: internal leaf
//	Book:   id, title, genre, authorId: leaves; author: Author
//	Author: id, name: leaves; books: [Book]
func bookstoreSchema() *testType {
	author := &testType{}
	book := &testType{}

	author.fields = schema.FieldMap{
		"id":    leaf(),
		"name":  leaf(),
		"books": &testField{target: book},
	}
	book.fields = schema.FieldMap{
		"id":       leaf(),
		"title":    leaf(),
		"genre":    leaf(),
		"authorId": leaf(),
		"author":   &testField{target: author},
	}
	return &testType{fields: schema.FieldMap{
		"books": &testField{
			target: book,
			args: []*schema.InputValue{
				{Name: "genre", Type: schema.NamedType("String")},
				{Name: "first", Type: schema.NamedType("Int"), DefaultValue: 10, HasDefault: true},
			},
		},
		"book": &testField{
			target: book,
			args: []*schema.InputValue{
				{Name: "id", Type: schema.NonNullType(schema.NamedType("Int"))},
			},
		},
		"a":     leaf(),
		"b":     leaf(),
		"c":     leaf(),
		"audit": &testField{internal: true},
	}}
}

// shape is a comparable projection of a compiled request tree.
type shape struct {
	Key        string
	Args       map[string]any
	Selections []shape
	Leaf       bool
}

func shapeOf(r *Request) shape {
	s := shape{Key: r.Key, Args: r.Args, Leaf: r.IsLeaf()}
	for _, sel := range r.Selections {
		s.Selections = append(s.Selections, shapeOf(sel))
	}
	return s
}

func compile(t *testing.T, source string, variables map[string]any) (*DocumentRequest, error) {
	t.Helper()
	doc := mustParseQuery(t, source)
	return FromDocument(doc, bookstoreSchema(), bookstoreSchema(), variables)
}

func mustCompile(t *testing.T, source string, variables map[string]any) *DocumentRequest {
	t.Helper()
	dr, err := compile(t, source, variables)
	if err != nil {
		t.Fatalf("compile %q: %v", source, err)
	}
	return dr
}
