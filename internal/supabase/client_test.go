package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New("", "key"); err == nil {
		t.Fatal("expected error when url missing")
	}
	if _, err := New("https://x.supabase.co", " "); err == nil {
		t.Fatal("expected error when anon key missing")
	}
}

func TestSelect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/comic_rows" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "anon" || r.Header.Get("Authorization") != "Bearer anon" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		q := r.URL.Query()
		if q.Get("select") != "*" {
			t.Errorf("expected select=*, got %q", q.Get("select"))
		}
		if q.Get("order") != `"order".asc` {
			t.Errorf("unexpected order %q", q.Get("order"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r1","title":"On Air Now","emoji":"📺","order":1}]`))
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL+"/", "anon")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var rows []GroupingRow
	err = client.Select(context.Background(), TableComicRows, Query{Order: []Order{{Column: "order", Ascending: true}}}, &rows)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "On Air Now" || rows[0].Order != 1 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestSelectOne(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "eq.arc-one" {
			_, _ = w.Write([]byte(`[{"id":"1","slug":"arc-one","title":"Arc One: The Setup","rating":4.7}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client, _ := New(server.URL, "anon")

	var row ComicRow
	if err := client.SelectOne(context.Background(), TableComics, Query{Eq: map[string]string{"slug": "arc-one"}}, &row); err != nil {
		t.Fatalf("SelectOne returned error: %v", err)
	}
	if row.Title != "Arc One: The Setup" {
		t.Fatalf("unexpected row %#v", row)
	}

	err := client.SelectOne(context.Background(), TableComics, Query{Eq: map[string]string{"slug": "nope"}}, &row)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	t.Cleanup(server.Close)

	client, _ := New(server.URL, "anon")
	var rows []ComicRow
	err := client.Select(context.Background(), TableComics, Query{}, &rows)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusUnauthorized || se.Message != "Invalid API key" {
		t.Fatalf("unexpected error %#v", se)
	}
}

func TestInsert(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Prefer") != "return=minimal" {
			t.Errorf("unexpected request %s %v", r.Method, r.Header)
		}
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	client, _ := New(server.URL, "anon")
	if err := client.Insert(context.Background(), TableAnalyticsEvents, EventInsert{EventType: "page_view"}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if !strings.Contains(body, `"event_type":"page_view"`) || strings.Contains(body, "comic_id") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestPublicURL(t *testing.T) {
	client, _ := New("https://x.supabase.co/", "anon")
	got := client.PublicURL(BucketThumbnails, "/arc-one.jpg")
	if got != "https://x.supabase.co/storage/v1/object/public/comic-thumbnails/arc-one.jpg" {
		t.Fatalf("unexpected url %s", got)
	}
}
