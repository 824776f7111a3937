package api

import (
	"context"
	"fmt"
	"time"
)

// Borrowing is one loan. ReturnedAt is nil while the loan is active; the
// transition to non-nil is terminal and happens server-side only. Book is
// embedded by the service when it joins the catalog entry in.
type Borrowing struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	Book       *Book      `json:"books,omitempty"`
}

// Active reports whether the loan is still open.
func (b Borrowing) Active() bool { return b.ReturnedAt == nil }

// BorrowingsService wraps the /borrowings resource.
type BorrowingsService struct {
	client *Client
}

// Borrow opens a loan on a book for the signed-in user.
func (s *BorrowingsService) Borrow(ctx context.Context, bookID int64) (*Borrowing, error) {
	var b Borrowing
	if err := s.client.post(ctx, fmt.Sprintf("/borrowings/%d", bookID), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Return closes the signed-in user's active loan on a book.
func (s *BorrowingsService) Return(ctx context.Context, bookID int64) (*Borrowing, error) {
	var b Borrowing
	if err := s.client.put(ctx, fmt.Sprintf("/borrowings/%d/return", bookID), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Mine lists all of the signed-in user's loans, open and closed.
func (s *BorrowingsService) Mine(ctx context.Context) ([]Borrowing, error) {
	var out []Borrowing
	if err := s.client.get(ctx, "/borrowings/me", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SplitBorrowings partitions loans into active and returned, preserving
// order within each group.
func SplitBorrowings(all []Borrowing) (active, returned []Borrowing) {
	for _, b := range all {
		if b.Active() {
			active = append(active, b)
		} else {
			returned = append(returned, b)
		}
	}
	return active, returned
}
