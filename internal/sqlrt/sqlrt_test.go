package sqlrt

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/graphjoin/internal/join"
	"github.com/hanpama/graphjoin/internal/language"
	"github.com/hanpama/graphjoin/internal/request"
	"github.com/hanpama/graphjoin/internal/schema"
)

func openFixture(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE author (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE book (id INTEGER PRIMARY KEY, title TEXT NOT NULL, genre TEXT NOT NULL, author_id INTEGER REFERENCES author (id))`,
		`INSERT INTO author (name) VALUES ('PG Wodehouse'), ('Joseph Heller'), ('Jules Verne')`,
		`INSERT INTO book (title, author_id, genre) VALUES
			('Leave It to Psmith', 1, 'comedy'),
			('Right Ho, Jeeves', 1, 'comedy'),
			('Catch-22', 2, 'comedy'),
			('Around the World in Eighty Days', 3, 'adventure')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func intField(column string) *join.ScalarField {
	return &join.ScalarField{Type: schema.NamedType("Int"), Attr: column}
}

func textField(column string) *join.ScalarField {
	return &join.ScalarField{Type: schema.NamedType("String"), Attr: column}
}

func bookstore(source *Source) *join.JoinType {
	var authorType, bookType *join.JoinType

	authorType = join.NewJoinType("Author", source.FetchImmediates, func() schema.FieldMap {
		return schema.FieldMap{
			"id":   intField("id"),
			"name": textField("name"),
		}
	})
	bookType = join.NewJoinType("Book", source.FetchImmediates, func() schema.FieldMap {
		author := join.Single(authorType,
			func(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
				return Table("author"), nil
			},
			join.On("authorId", "id"))
		return schema.FieldMap{
			"id":       intField("id"),
			"title":    textField("title"),
			"genre":    textField("genre"),
			"authorId": intField("author_id"),
			"author":   author,
		}
	})
	return join.NewRootJoinType("Root", func() schema.FieldMap {
		books := join.Many(bookType,
			func(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
				query := Table("book")
				if genre, ok := args["genre"].(string); ok {
					query = query.Where("genre = ?", genre)
				}
				return query, nil
			},
			join.WithArguments(&schema.InputValue{Name: "genre", Type: schema.NamedType("String")}))
		return schema.FieldMap{"books": books}
	})
}

func TestQueryOverDatabase(t *testing.T) {
	db := openFixture(t)
	root := bookstore(New(db))

	doc, err := language.ParseQuery(`
		{
			books(genre: "comedy") {
				title
				author {
					name
				}
			}
		}
	`)
	require.NoError(t, err)
	dr, err := request.FromDocument(doc, root, nil, nil)
	require.NoError(t, err)
	results, err := root.Fetch(context.Background(), dr.Query, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	want := map[string]any{
		"books": []any{
			map[string]any{"title": "Leave It to Psmith", "author": map[string]any{"name": "PG Wodehouse"}},
			map[string]any{"title": "Right Ho, Jeeves", "author": map[string]any{"name": "PG Wodehouse"}},
			map[string]any{"title": "Catch-22", "author": map[string]any{"name": "Joseph Heller"}},
		},
	}
	require.Empty(t, cmp.Diff(want, results[0].Value))
}

func TestQueryOverDatabaseUnfiltered(t *testing.T) {
	db := openFixture(t)
	root := bookstore(New(db))

	doc, err := language.ParseQuery(`{ books { genre } }`)
	require.NoError(t, err)
	dr, err := request.FromDocument(doc, root, nil, nil)
	require.NoError(t, err)
	results, err := root.Fetch(context.Background(), dr.Query, nil)
	require.NoError(t, err)

	want := map[string]any{
		"books": []any{
			map[string]any{"genre": "comedy"},
			map[string]any{"genre": "comedy"},
			map[string]any{"genre": "comedy"},
			map[string]any{"genre": "adventure"},
		},
	}
	require.Empty(t, cmp.Diff(want, results[0].Value))
}

func TestWhereDoesNotAliasParent(t *testing.T) {
	base := Table("book")
	comedy := base.Where("genre = ?", "comedy")
	short := comedy.Where("length(title) < ?", 10)

	stmt, args := base.render([]string{"id"})
	require.Equal(t, "SELECT id FROM book", stmt)
	require.Empty(t, args)

	stmt, args = comedy.render([]string{"id", "title"})
	require.Equal(t, "SELECT id, title FROM book WHERE genre = ?", stmt)
	require.Equal(t, []any{"comedy"}, args)

	stmt, args = short.render(nil)
	require.Equal(t, "SELECT 1 FROM book WHERE genre = ? AND length(title) < ?", stmt)
	require.Equal(t, []any{"comedy", 10}, args)
}

func TestFetchImmediatesWrongQueryType(t *testing.T) {
	db := openFixture(t)
	_, err := New(db).FetchImmediates(context.Background(), nil, "book")
	require.ErrorContains(t, err, "want *Query")
}
