package sanity_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
	"github.com/Lafiorentina/siteweb/internal/adapters/sanity"
	"github.com/Lafiorentina/siteweb/internal/domain"
)

func newClient(t *testing.T, base string) *sanity.Client {
	t.Helper()
	cl, err := sanity.New(sanity.Options{BaseURL: base, Dataset: "production", APIVersion: "2024-01-01", RPS: 100})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_Query_DecodesResult(t *testing.T) {
	var gotPath, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ms":3,"query":"x","result":{"phrase1":{"en":"Welcome","pt":"Bem-vindo"}}}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var doc domain.HeroDoc
	q := `*[_type == "heroText"][0]{ phrase1, phrase2 }`
	if err := cl.Query(ctx, q, &doc); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotPath != "/v2024-01-01/data/query/production" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotQuery != q {
		t.Fatalf("query not forwarded verbatim: %q", gotQuery)
	}
	if doc.Phrase1.PT != "Bem-vindo" || doc.Phrase1.EN != "Welcome" {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestClient_Query_NullResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	}))
	defer ts.Close()

	var doc domain.MenuDoc
	err := newClient(t, ts.URL).Query(context.Background(), "*[0]", &doc)
	if !errors.Is(err, domain.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestClient_Query_NoRetryOnServerError(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	var doc domain.GalleryDoc
	if err := newClient(t, ts.URL).Query(context.Background(), "*[0]", &doc); err == nil {
		t.Fatalf("expected error for 503")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one attempt, got %d", n)
	}
}

func TestClient_Query_StatusErrors(t *testing.T) {
	cases := map[int]error{
		http.StatusUnauthorized: sanity.ErrUnauthorized,
		http.StatusForbidden:    sanity.ErrForbidden,
		http.StatusNotFound:     sanity.ErrNotFound,
		http.StatusBadRequest:   sanity.ErrBadQuery,
	}
	for status, want := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"description":"boom"}}`))
		}))
		var doc domain.HeroDoc
		err := newClient(t, ts.URL).Query(context.Background(), "*[0]", &doc)
		ts.Close()
		if !errors.Is(err, want) {
			t.Fatalf("status %d: expected %v, got %v", status, want, err)
		}
	}
}

func TestSentinels_HaveErrLabels(t *testing.T) {
	cases := map[error]string{
		sanity.ErrUnauthorized:                     "unauthorized",
		sanity.ErrForbidden:                        "forbidden",
		sanity.ErrNotFound:                         "not_found",
		fmt.Errorf("%w: boom", sanity.ErrBadQuery): "bad_query",
	}
	for err, want := range cases {
		if got := observability.LabelErr(err); got != want {
			t.Fatalf("LabelErr(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestClient_SendsToken(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"result":{}}`))
	}))
	defer ts.Close()

	cl, err := sanity.New(sanity.Options{BaseURL: ts.URL, Dataset: "production", Token: "tok", RPS: 100})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var doc domain.HeroDoc
	if err := cl.Query(context.Background(), "*[0]", &doc); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if auth != "Bearer tok" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
}

func TestNew_RequiresProjectAndDataset(t *testing.T) {
	if _, err := sanity.New(sanity.Options{Dataset: "production"}); err == nil {
		t.Fatalf("expected error without project id")
	}
	if _, err := sanity.New(sanity.Options{ProjectID: "p"}); err == nil {
		t.Fatalf("expected error without dataset")
	}
}
