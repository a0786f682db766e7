package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hanpama/graphjoin/internal/executor"
	"github.com/hanpama/graphjoin/internal/join"
	"github.com/hanpama/graphjoin/internal/reqid"
	"github.com/hanpama/graphjoin/internal/schema"
)

// helloSchema is a minimal schema exposing `hello: String`. onFetch, when
// set, observes the context the fetcher runs under.
func helloSchema(onFetch func(ctx context.Context)) *executor.Schema {
	messages := []map[string]any{{"text": "world"}}
	msg := join.NewJoinType("Message",
		func(ctx context.Context, selections []join.ImmediateSelection, query any) ([]join.Row, error) {
			if onFetch != nil {
				onFetch(ctx)
			}
			items := query.([]map[string]any)
			rows := make([]join.Row, len(items))
			for i, item := range items {
				row := make(join.Row, len(selections))
				for j, sel := range selections {
					row[j] = item[sel.Field.(*join.ScalarField).Attr]
				}
				rows[i] = row
			}
			return rows, nil
		},
		func() schema.FieldMap {
			return schema.FieldMap{
				"text": &join.ScalarField{Type: schema.NamedType("String"), Attr: "text"},
			}
		})
	root := join.NewRootJoinType("Query", func() schema.FieldMap {
		rel := join.Single(msg, func(ctx context.Context, args map[string]any, parentQuery any) (any, error) {
			return messages, nil
		})
		return schema.FieldMap{"hello": join.Extract(rel, "text")}
	})
	return &executor.Schema{Query: root}
}

func newTestHandler(t *testing.T, onFetch func(ctx context.Context), opts ...Option) *Handler {
	t.Helper()
	h, err := New(helloSchema(onFetch), opts...)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return h
}

func postJSON(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostQuery(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postJSON(h, `{"query":"{ hello }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"data":{"hello":"world"}}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestGetQuery(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/?query={hello}", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"data":{"hello":"world"}}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestBatchRequests(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postJSON(h, `[{"query":"{ hello }"},{"query":"{ hi: hello }"}]`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var out []struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid batch response: %v", err)
	}
	if len(out) != 2 || out[0].Data["hello"] != "world" || out[1].Data["hi"] != "world" {
		t.Fatalf("unexpected batch response: %s", w.Body.String())
	}
}

func TestCompileErrorResponse(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postJSON(h, `{"query":"{ goodbye }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var out struct {
		Data   map[string]any `json:"data"`
		Errors []struct {
			Message    string         `json:"message"`
			Extensions map[string]any `json:"extensions"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if out.Data != nil {
		t.Fatalf("expected null data, got %v", out.Data)
	}
	if len(out.Errors) != 1 || out.Errors[0].Extensions["code"] != "UNKNOWN_FIELD" {
		t.Fatalf("unexpected errors: %s", w.Body.String())
	}
}

func TestSyntaxErrorResponse(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postJSON(h, `{"query":"{ hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"errors"`) {
		t.Fatalf("expected errors in body: %s", w.Body.String())
	}
}

func TestInvalidJSON(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postJSON(h, `{"query":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("PUT", "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
}

func TestCORSAndPreflight(t *testing.T) {
	h := newTestHandler(t, nil, WithCORS("*"))

	// simple request
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}

	// preflight
	pre := httptest.NewRequest("OPTIONS", "/", nil)
	pre.Header.Set("Origin", "http://example.com")
	pre.Header.Set("Access-Control-Request-Headers", "X-Test")
	pw := httptest.NewRecorder()
	h.ServeHTTP(pw, pre)
	if pw.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", pw.Code)
	}
	if pw.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight missing CORS header")
	}
	if pw.Header().Get("Access-Control-Allow-Headers") != "X-Test" {
		t.Fatalf("preflight missing allow headers")
	}
}

func TestMaxBodyBytes(t *testing.T) {
	h := newTestHandler(t, nil, WithMaxBodyBytes(10))

	w := postJSON(h, `{"query":"1234567890"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	var capturedID int64
	h := newTestHandler(t, func(ctx context.Context) {
		capturedID, _ = reqid.FromContext(ctx)
	})

	w := postJSON(h, `{"query":"{ hello }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if capturedID == 0 {
		t.Fatalf("missing request id in context")
	}
	if got := w.Header().Get("Graphql-Request-Id"); got != reqid.String(capturedID) {
		t.Fatalf("response header mismatch: %q id %d", got, capturedID)
	}
}

func TestGraphiQLPage(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("content type %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "GraphiQL") {
		t.Fatalf("missing GraphiQL page body")
	}
}

func TestIntrospectionDisabled(t *testing.T) {
	h := newTestHandler(t, nil, WithoutIntrospection())

	w := postJSON(h, `{"query":"{ __schema { queryType { name } } }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "introspection is not enabled") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
