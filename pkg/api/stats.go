package api

import "context"

// BookStat is one row of the most-borrowed-books aggregate.
type BookStat struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// UserStat is one row of the most-active-borrowers aggregate.
type UserStat struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// StatsService wraps the /stats resource. Aggregation happens server-side;
// the client only renders the counts.
type StatsService struct {
	client *Client
}

// TopBooks fetches borrow counts per title.
func (s *StatsService) TopBooks(ctx context.Context) ([]BookStat, error) {
	var out []BookStat
	if err := s.client.get(ctx, "/stats/books", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopUsers fetches borrow counts per user.
func (s *StatsService) TopUsers(ctx context.Context) ([]UserStat, error) {
	var out []UserStat
	if err := s.client.get(ctx, "/stats/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalBorrows sums the per-title counts into the overall borrow total
// shown on the stats overview.
func TotalBorrows(stats []BookStat) int {
	total := 0
	for _, s := range stats {
		total += s.Count
	}
	return total
}
