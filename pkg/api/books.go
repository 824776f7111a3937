package api

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Book is a catalog entry. The client holds read/write proxies only: stock
// is decremented and restored server-side and merely mirrored here.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

// Available reports whether at least one copy is in stock.
func (b Book) Available() bool { return b.Stock > 0 }

// BookInput is the create/update payload for a catalog entry.
type BookInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Stock  int    `json:"stock"`
}

// BooksService wraps the /books resource.
type BooksService struct {
	client *Client
}

// List fetches the whole catalog.
func (s *BooksService) List(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := s.client.get(ctx, "/books", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Get fetches a single book by id.
func (s *BooksService) Get(ctx context.Context, id int64) (*Book, error) {
	var book Book
	if err := s.client.get(ctx, fmt.Sprintf("/books/%d", id), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Create adds a catalog entry. Admin only; the server enforces the role.
func (s *BooksService) Create(ctx context.Context, in BookInput) (*Book, error) {
	var book Book
	if err := s.client.post(ctx, "/books", in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Update replaces a catalog entry. Admin only.
func (s *BooksService) Update(ctx context.Context, id int64, in BookInput) (*Book, error) {
	var book Book
	if err := s.client.put(ctx, fmt.Sprintf("/books/%d", id), in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Delete removes a catalog entry. Admin only.
func (s *BooksService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/books/%d", id))
}

// FilterBooks narrows the catalog the way the search box does: an empty or
// all-whitespace query returns the set unfiltered; otherwise a book matches
// when the query appears case-insensitively in its title or author, or
// verbatim in its ISBN.
func FilterBooks(books []Book, query string) []Book {
	q := strings.TrimSpace(query)
	if q == "" {
		return books
	}

	lower := strings.ToLower(q)
	matched := make([]Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), lower) ||
			strings.Contains(strings.ToLower(b.Author), lower) ||
			strings.Contains(b.ISBN, q) {
			matched = append(matched, b)
		}
	}
	return matched
}
