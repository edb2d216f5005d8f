package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"watchnest/internal/models"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w342"
	requestTimeout = 10 * time.Second
	maxSearchHits  = 10
)

// ErrNotConfigured is returned when no TMDB API key is available
var ErrNotConfigured = errors.New("metadata search is not configured")

// SearchResult is a single movie or TV show match from TMDB
type SearchResult struct {
	Title       string `json:"title"`
	MediaType   string `json:"media_type"`
	Year        *int   `json:"year"`
	PosterURL   string `json:"poster_url"`
	Description string `json:"description"`
}

// Client queries The Movie Database search API. The API key can be replaced
// at runtime through the settings endpoint while searches are in flight, so
// access to it is guarded.
type Client struct {
	mu         sync.RWMutex
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a TMDB client. An empty API key yields a client whose
// Search returns ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// SetAPIKey replaces the client's API key
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	c.apiKey = apiKey
	c.mu.Unlock()
}

// currentKey reads the API key under the lock
func (c *Client) currentKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// IsConfigured reports whether the client has an API key
func (c *Client) IsConfigured() bool {
	return c.currentKey() != ""
}

// MaskedKey returns a preview of the API key safe to show in settings,
// keeping only the last four characters.
func (c *Client) MaskedKey() string {
	key := c.currentKey()
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// tmdbSearchResponse mirrors the fields we need from TMDB's search endpoints
type tmdbSearchResponse struct {
	Results []struct {
		Title        string `json:"title"`          // movies
		Name         string `json:"name"`           // tv shows
		ReleaseDate  string `json:"release_date"`   // movies, YYYY-MM-DD
		FirstAirDate string `json:"first_air_date"` // tv shows, YYYY-MM-DD
		PosterPath   string `json:"poster_path"`
		Overview     string `json:"overview"`
	} `json:"results"`
}

// Search looks up movies or TV shows by title, returning at most ten results
func (c *Client) Search(ctx context.Context, query, mediaType string) ([]SearchResult, error) {
	apiKey := c.currentKey()
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}
	if !models.ValidMediaType(mediaType) {
		return nil, fmt.Errorf("media type must be %q or %q", models.MediaTypeMovie, models.MediaTypeTV)
	}

	endpoint := "/search/movie"
	if mediaType == models.MediaTypeTV {
		endpoint = "/search/tv"
	}

	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("query", query)
	params.Set("include_adult", "false")

	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query tmdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.New("tmdb rejected the api key")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb returned status %d", resp.StatusCode)
	}

	var payload tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb response: %w", err)
	}

	results := make([]SearchResult, 0, maxSearchHits)
	for _, hit := range payload.Results {
		if len(results) >= maxSearchHits {
			break
		}

		title := hit.Title
		date := hit.ReleaseDate
		if mediaType == models.MediaTypeTV {
			title = hit.Name
			date = hit.FirstAirDate
		}
		if title == "" {
			continue
		}

		result := SearchResult{
			Title:       title,
			MediaType:   mediaType,
			Year:        yearFromDate(date),
			Description: hit.Overview,
		}
		if hit.PosterPath != "" {
			result.PosterURL = posterBaseURL + hit.PosterPath
		}
		results = append(results, result)
	}

	return results, nil
}

// yearFromDate extracts the year from a YYYY-MM-DD date string
func yearFromDate(date string) *int {
	if len(date) < 4 {
		return nil
	}
	var year int
	if _, err := fmt.Sscanf(date[:4], "%d", &year); err != nil {
		return nil
	}
	return &year
}
