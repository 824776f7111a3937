package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bibliotek/bibliotek/pkg/api"
)

const dateFormat = "02 Jan 2006"

func (a *App) booksCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "books",
		Short:   "Browse the catalog",
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, err := a.client.Books.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading catalog: %s", describe(err))
			}

			books = api.FilterBooks(books, search)
			if len(books) == 0 {
				fmt.Fprintln(a.out, "No books found.")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tISBN\tSTOCK")
			for _, b := range books {
				stock := strconv.Itoa(b.Stock)
				if !b.Available() {
					stock = "unavailable"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.ISBN, stock)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by title, author or ISBN")
	return cmd
}

func (a *App) borrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "borrow <book-id>",
		Short:   "Borrow a book",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			loan, err := a.client.Borrowings.Borrow(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("borrow failed: %s", describe(err))
			}
			fmt.Fprintf(a.out, "Borrowed book %d on %s.\n", loan.BookID, loan.BorrowedAt.Format(dateFormat))
			return nil
		},
	}
}

func (a *App) returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "return <book-id>",
		Short:   "Return a borrowed book",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			loan, err := a.client.Borrowings.Return(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("return failed: %s", describe(err))
			}
			fmt.Fprintf(a.out, "Returned book %d.\n", loan.BookID)
			return nil
		},
	}
}

func (a *App) borrowingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "borrowings",
		Short:   "List your borrowings, current and past",
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := a.client.Borrowings.Mine(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading borrowings: %s", describe(err))
			}

			active, returned := api.SplitBorrowings(all)

			fmt.Fprintf(a.out, "Active (%d)\n", len(active))
			if len(active) == 0 {
				fmt.Fprintln(a.out, "  none")
			}
			for _, b := range active {
				fmt.Fprintf(a.out, "  #%-4d %s, borrowed %s\n",
					b.BookID, loanTitle(b), b.BorrowedAt.Format(dateFormat))
			}

			fmt.Fprintf(a.out, "History (%d)\n", len(returned))
			if len(returned) == 0 {
				fmt.Fprintln(a.out, "  none")
			}
			for _, b := range returned {
				fmt.Fprintf(a.out, "  #%-4d %s, %s to %s\n",
					b.BookID, loanTitle(b),
					b.BorrowedAt.Format(dateFormat), b.ReturnedAt.Format(dateFormat))
			}
			return nil
		},
	}
}

func loanTitle(b api.Borrowing) string {
	if b.Book != nil {
		return b.Book.Title
	}
	return fmt.Sprintf("book %d", b.BookID)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}
