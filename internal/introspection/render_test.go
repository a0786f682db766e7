package introspection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRenderSDL(t *testing.T) {
	m := buildModel(bookSchema(), nil)

	want := `schema {
  query: Root
}

type Author {
  bookTitles: [String]!
  books: [Book!]!
  id: Int
  name: String
}

type Book {
  author: Author!
  authorId: Int
  id: Int
  title: String
}

type Root {
  book(id: Int!): Book
  books(genre: String, first: Int = 10): [Book!]!
}
`
	require.Empty(t, cmp.Diff(want, Render(m)))
}
