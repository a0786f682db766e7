package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hanpama/graphjoin/internal/eventbus"
	"github.com/hanpama/graphjoin/internal/introspection"
	"github.com/hanpama/graphjoin/internal/otel"
	"github.com/hanpama/graphjoin/internal/server"
)

const usage = `graphjoin: batched GraphQL join server demo

Serves the bookstore demo schema over SQLite.

FLAGS:
  -db <path>                    SQLite database path (default: in-memory, seeded)
  -graphql.introspection <bool> Enable GraphQL introspection (default: true)
  -print-schema                 Print the schema SDL and exit
  -server.addr <addr>           HTTP listen address (default: :8080)
  -server.pretty                Pretty-print JSON responses
  -server.timeout <duration>    Per-request timeout, e.g. 10s (default: 10s)
  -otel.endpoint <addr>         OTLP collector endpoint
  -otel.service <name>          OpenTelemetry service name (default: graphjoin)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	dbPath := ":memory:"
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	enableIntrospection := true
	printSchema := false
	otelEndpoint := ""
	otelService := "graphjoin"

	fs := flag.NewFlagSet("graphjoin", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&dbPath, "db", dbPath, "SQLite database path")
	fs.BoolVar(&enableIntrospection, "graphql.introspection", enableIntrospection, "Enable GraphQL introspection")
	fs.BoolVar(&printSchema, "print-schema", printSchema, "Print the schema SDL and exit")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, usage)
		return err
	}

	db, err := openBookstore(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sch := bookstoreSchema(db)
	if printSchema {
		fmt.Print(introspection.RenderSchema(sch.Query, sch.Mutation))
		return nil
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	var sopts []server.Option
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	if !enableIntrospection {
		sopts = append(sopts, server.WithoutIntrospection())
	}
	h, err := server.New(sch, sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	log.Printf("GraphQL server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
