package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-api-key")
	client.baseURL = server.URL
	return client
}

func TestSearchMovies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "matrix" {
			t.Errorf("unexpected query: %s", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-api-key" {
			t.Errorf("unexpected api key: %s", got)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"title":        "The Matrix",
					"release_date": "1999-03-31",
					"poster_path":  "/matrix.jpg",
					"overview":     "A hacker discovers reality is a simulation.",
				},
				{
					"title":        "The Matrix Reloaded",
					"release_date": "2003-05-15",
				},
			},
		})
	})

	results, err := client.Search(context.Background(), "matrix", "movie")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Title != "The Matrix" {
		t.Errorf("expected title 'The Matrix', got %q", first.Title)
	}
	if first.Year == nil || *first.Year != 1999 {
		t.Errorf("expected year 1999, got %v", first.Year)
	}
	if first.PosterURL != posterBaseURL+"/matrix.jpg" {
		t.Errorf("unexpected poster url: %q", first.PosterURL)
	}
	if first.MediaType != "movie" {
		t.Errorf("expected media type movie, got %q", first.MediaType)
	}

	if results[1].PosterURL != "" {
		t.Errorf("expected empty poster url, got %q", results[1].PosterURL)
	}
}

func TestSearchTVUsesNameAndFirstAirDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"name":           "Severance",
					"first_air_date": "2022-02-18",
				},
			},
		})
	})

	results, err := client.Search(context.Background(), "severance", "tv")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != "Severance" {
		t.Errorf("expected title 'Severance', got %q", results[0].Title)
	}
	if results[0].Year == nil || *results[0].Year != 2022 {
		t.Errorf("expected year 2022, got %v", results[0].Year)
	}
}

func TestSearchCapsResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var hits []map[string]any
		for i := 0; i < 20; i++ {
			hits = append(hits, map[string]any{"title": "Movie", "release_date": "2020-01-01"})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": hits})
	})

	results, err := client.Search(context.Background(), "movie", "movie")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != maxSearchHits {
		t.Errorf("expected %d results, got %d", maxSearchHits, len(results))
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		query     string
		mediaType string
		status    int
	}{
		{"no api key", "", "matrix", "movie", http.StatusOK},
		{"empty query", "key", "", "movie", http.StatusOK},
		{"bad media type", "key", "matrix", "book", http.StatusOK},
		{"unauthorized", "key", "matrix", "movie", http.StatusUnauthorized},
		{"server error", "key", "matrix", "movie", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
			})
			client.SetAPIKey(tt.apiKey)

			if _, err := client.Search(context.Background(), tt.query, tt.mediaType); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConcurrentKeyUpdates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Movie", "release_date": "2020-01-01"},
			},
		})
	})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			client.SetAPIKey(fmt.Sprintf("key-%d", i))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, err := client.Search(context.Background(), "movie", "movie"); err != nil {
				t.Errorf("Search failed: %v", err)
				return
			}
			client.IsConfigured()
			client.MaskedKey()
		}
	}()

	wg.Wait()
}

func TestMaskedKey(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   string
	}{
		{"normal key", "abcdef123456", "********3456"},
		{"short key", "abc", "***"},
		{"empty key", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.apiKey)
			if got := client.MaskedKey(); got != tt.want {
				t.Errorf("MaskedKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
