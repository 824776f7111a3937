package api_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bibliotek/bibliotek/pkg/api"
)

var catalog = []api.Book{
	{ID: 1, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Stock: 2},
	{ID: 2, Title: "Le Petit Prince", Author: "Antoine de Saint-Exupéry", ISBN: "9782070408504", Stock: 0},
	{ID: 3, Title: "Neuromancer", Author: "William Gibson", ISBN: "9780441569595", Stock: 1},
}

func TestFilterBooks(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"empty query returns full set", "", []int64{1, 2, 3}},
		{"whitespace query returns full set", "   ", []int64{1, 2, 3}},
		{"title match is case-insensitive", "dune", []int64{1}},
		{"author match is case-insensitive", "gibson", []int64{3}},
		{"partial author", "saint", []int64{2}},
		{"isbn substring", "9780441", []int64{1, 3}},
		{"no match yields empty set", "zzzz-not-a-book", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := api.FilterBooks(catalog, tt.query)
			ids := make([]int64, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.want, ids)
			}
		})
	}
}

func TestBook_Available(t *testing.T) {
	assert.True(t, api.Book{Stock: 1}.Available())
	assert.False(t, api.Book{Stock: 0}.Available())
}

func TestSplitBorrowings(t *testing.T) {
	now := time.Now()
	all := []api.Borrowing{
		{ID: 1, BookID: 10},
		{ID: 2, BookID: 11, ReturnedAt: &now},
		{ID: 3, BookID: 12},
	}

	active, returned := api.SplitBorrowings(all)
	assert.Len(t, active, 2)
	assert.Len(t, returned, 1)
	assert.Equal(t, int64(1), active[0].ID)
	assert.Equal(t, int64(3), active[1].ID)
	assert.Equal(t, int64(2), returned[0].ID)

	active, returned = api.SplitBorrowings(nil)
	assert.Empty(t, active)
	assert.Empty(t, returned)
}

func TestTotalBorrows(t *testing.T) {
	assert.Equal(t, 0, api.TotalBorrows(nil))
	assert.Equal(t, 9, api.TotalBorrows([]api.BookStat{
		{Title: "Dune", Count: 5},
		{Title: "Neuromancer", Count: 4},
	}))
}
