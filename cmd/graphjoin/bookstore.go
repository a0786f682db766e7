package main

import (
	"context"
	"database/sql"

	"github.com/hanpama/graphjoin/internal/executor"
	"github.com/hanpama/graphjoin/internal/join"
	"github.com/hanpama/graphjoin/internal/schema"
	"github.com/hanpama/graphjoin/internal/sqlrt"
)

// The demo schema: a small bookstore backed by SQLite. Books join to their
// authors and both sides expose extract projections.

func openBookstore(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := seedBookstore(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func seedBookstore(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS author (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS book (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			genre TEXT NOT NULL,
			author_id INTEGER REFERENCES author (id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	var count int
	if err := db.QueryRow(`SELECT count(*) FROM author`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []string{
		`INSERT INTO author (name) VALUES ('PG Wodehouse'), ('Joseph Heller'), ('Jules Verne')`,
		`INSERT INTO book (title, author_id, genre) VALUES
			('Leave It to Psmith', 1, 'comedy'),
			('Right Ho, Jeeves', 1, 'comedy'),
			('Catch-22', 2, 'comedy'),
			('Around the World in Eighty Days', 3, 'adventure')`,
	}
	for _, stmt := range seeds {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func intColumn(name string) *join.ScalarField {
	return &join.ScalarField{Type: schema.NamedType("Int"), Attr: name}
}

func textColumn(name string) *join.ScalarField {
	return &join.ScalarField{Type: schema.NamedType("String"), Attr: name}
}

func bookstoreSchema(db *sql.DB) *executor.Schema {
	source := sqlrt.New(db)

	var authorType, bookType *join.JoinType

	authorType = join.NewJoinType("Author", source.FetchImmediates, func() schema.FieldMap {
		books := join.Many(bookType, authorBooksQuery, join.On("id", "authorId"))
		return schema.FieldMap{
			"id":         intColumn("id"),
			"name":       textColumn("name"),
			"books":      books,
			"bookTitles": join.Extract(books, "title"),
		}
	})

	bookType = join.NewJoinType("Book", source.FetchImmediates, func() schema.FieldMap {
		author := join.Single(authorType, allAuthorsQuery, join.On("authorId", "id"))
		return schema.FieldMap{
			"id":         intColumn("id"),
			"title":      textColumn("title"),
			"genre":      textColumn("genre"),
			"authorId":   intColumn("author_id"),
			"author":     author,
			"authorName": join.Extract(author, "name"),
		}
	})

	root := join.NewRootJoinType("Query", func() schema.FieldMap {
		idArg := &schema.InputValue{Name: "id", Type: schema.NonNullType(schema.NamedType("Int"))}
		return schema.FieldMap{
			"books": join.Many(bookType, booksQuery, join.WithArguments(
				&schema.InputValue{Name: "genre", Type: schema.NamedType("String")},
			)),
			"book":    join.SingleOrNull(bookType, byIDQuery("book"), join.WithArguments(idArg)),
			"authors": join.Many(authorType, allAuthorsQuery),
			"author":  join.SingleOrNull(authorType, byIDQuery("author"), join.WithArguments(idArg)),
		}
	})

	return &executor.Schema{Query: root}
}

func booksQuery(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
	query := sqlrt.Table("book")
	if genre, ok := args["genre"].(string); ok {
		query = query.Where("genre = ?", genre)
	}
	return query, nil
}

func allAuthorsQuery(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
	return sqlrt.Table("author"), nil
}

func authorBooksQuery(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
	return sqlrt.Table("book"), nil
}

func byIDQuery(table string) join.BuildQueryFunc {
	return func(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
		return sqlrt.Table(table).Where("id = ?", args["id"]), nil
	}
}
