package bookapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	booksPath      = "/books"
	searchPath     = "/books/search"
	sortedPath     = "/books/sorted"
	categoriesPath = "/books/categories"
	healthPath     = "/health"

	// RequestIDHeader correlates a gateway call with the backend's logs.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 512
)

// Client is a typed wrapper around the book REST backend.
// Errors are never swallowed; no call is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend mounted at baseURL (e.g. http://localhost:8080/api).
// A zero timeout keeps the transport default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListAll fetches every book, unfiltered and in backend order.
func (c *Client) ListAll(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.do(ctx, http.MethodGet, booksPath, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetByID fetches one book. A missing id yields an error matching ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id int64) (*entities.Book, error) {
	var book entities.Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Create registers a new book. The backend assigns id and timestamps.
func (c *Client) Create(ctx context.Context, form entities.BookFormData) (*entities.Book, error) {
	var book entities.Book
	if err := c.do(ctx, http.MethodPost, booksPath, form, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Update replaces every mutable field of the book.
func (c *Client) Update(ctx context.Context, id int64, form entities.BookFormData) (*entities.Book, error) {
	var book entities.Book
	if err := c.do(ctx, http.MethodPut, bookPath(id), form, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Delete removes a book. Callers confirm intent before calling.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, nil)
}

// Search sends only the non-empty filter fields.
func (c *Client) Search(ctx context.Context, filters entities.SearchFilters) ([]entities.Book, error) {
	path := searchPath
	if q := filters.QueryValues().Encode(); q != "" {
		path += "?" + q
	}

	var books []entities.Book
	if err := c.do(ctx, http.MethodGet, path, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SortedList asks the backend to order the full list.
func (c *Client) SortedList(ctx context.Context, sortBy entities.SortOption) ([]entities.Book, error) {
	if !sortBy.Valid() {
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidSortOption, sortBy)
	}

	var books []entities.Book
	if err := c.do(ctx, http.MethodGet, sortedPath+"?sortBy="+string(sortBy), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListCategories returns distinct categories across all books.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, categoriesPath, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Ping checks that the backend answers and reports itself healthy.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, healthPath, nil, nil)
}

func bookPath(id int64) string {
	return booksPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Printf("[API] %s %s -> HTTP %d (request %s)", method, path, resp.StatusCode, requestID)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
