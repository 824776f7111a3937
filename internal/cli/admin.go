package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bibliotek/bibliotek/pkg/api"
	"github.com/bibliotek/bibliotek/pkg/form"
)

func (a *App) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog administration",
	}

	books := &cobra.Command{
		Use:   "books",
		Short: "Manage catalog entries",
	}
	books.AddCommand(a.adminBookAddCmd(), a.adminBookUpdateCmd(), a.adminBookRemoveCmd())

	cmd.AddCommand(books)
	return cmd
}

// validateBookInput applies the catalog form rules. ISBN is optional but
// must be well-formed when present.
func validateBookInput(in api.BookInput) error {
	rules := []form.Rule{
		form.Required("title", in.Title),
		form.Required("author", in.Author),
		form.NonNegative("stock", in.Stock),
	}
	if in.ISBN != "" {
		rules = append(rules, form.ISBN("isbn", in.ISBN))
	}
	return form.Apply(rules...)
}

func bookInputFlags(cmd *cobra.Command, in *api.BookInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "book title")
	cmd.Flags().StringVar(&in.Author, "author", "", "book author")
	cmd.Flags().StringVar(&in.ISBN, "isbn", "", "ISBN")
	cmd.Flags().IntVar(&in.Stock, "stock", 0, "copies in stock")
}

func (a *App) adminBookAddCmd() *cobra.Command {
	var in api.BookInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a book to the catalog",
		PreRunE: a.requireAdmin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateBookInput(in); err != nil {
				return err
			}

			book, err := a.client.Books.Create(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("creating book: %s", describe(err))
			}
			fmt.Fprintf(a.out, "Added %q (id %d).\n", book.Title, book.ID)
			return nil
		},
	}
	bookInputFlags(cmd, &in)
	return cmd
}

func (a *App) adminBookUpdateCmd() *cobra.Command {
	var in api.BookInput

	cmd := &cobra.Command{
		Use:     "update <book-id>",
		Short:   "Replace a catalog entry",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireAdmin,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := validateBookInput(in); err != nil {
				return err
			}

			book, err := a.client.Books.Update(cmd.Context(), id, in)
			if err != nil {
				return fmt.Errorf("updating book: %s", describe(err))
			}
			fmt.Fprintf(a.out, "Updated %q (id %d).\n", book.Title, book.ID)
			return nil
		},
	}
	bookInputFlags(cmd, &in)
	return cmd
}

func (a *App) adminBookRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <book-id>",
		Short:   "Remove a catalog entry",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireAdmin,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := a.client.Books.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("removing book: %s", describe(err))
			}
			fmt.Fprintf(a.out, "Removed book %d.\n", id)
			return nil
		},
	}
}

func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Short:   "Library activity overview",
		PreRunE: a.requireAdmin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			books, err := a.client.Books.List(ctx)
			if err != nil {
				return fmt.Errorf("loading stats: %s", describe(err))
			}
			users, err := a.client.Users.List(ctx)
			if err != nil {
				return fmt.Errorf("loading stats: %s", describe(err))
			}
			topBooks, err := a.client.Stats.TopBooks(ctx)
			if err != nil {
				return fmt.Errorf("loading stats: %s", describe(err))
			}
			topUsers, err := a.client.Stats.TopUsers(ctx)
			if err != nil {
				return fmt.Errorf("loading stats: %s", describe(err))
			}

			fmt.Fprintf(a.out, "Books: %d  Users: %d  Borrows: %d\n",
				len(books), len(users), api.TotalBorrows(topBooks))

			fmt.Fprintln(a.out, "\nMost borrowed books")
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, s := range topBooks {
				fmt.Fprintf(w, "  %s\t%d\n", s.Title, s.Count)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "\nMost active borrowers")
			w = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, s := range topUsers {
				fmt.Fprintf(w, "  %s\t%d\n", s.Username, s.Count)
			}
			return w.Flush()
		},
	}
}
