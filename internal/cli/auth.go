package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibliotek/bibliotek/pkg/form"
)

// minPasswordLength is the form-level rule from the registration form; the
// service remains the authority.
const minPasswordLength = 6

func (a *App) loginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = a.promptLine("Username: "); err != nil {
					return err
				}
			}
			password, err := a.readPassword("Password: ")
			if err != nil {
				return err
			}
			if err := form.Apply(
				form.Required("username", username),
				form.Required("password", password),
			); err != nil {
				return err
			}

			resp, err := a.client.Auth.Login(cmd.Context(), username, password)
			if err != nil {
				// Credential failures stay on the form: report and
				// let the user retry, no redirect.
				return fmt.Errorf("login failed: %s", describe(err))
			}

			a.manager.SetUser(&resp.User)
			fmt.Fprintf(a.out, "Signed in as %s.\n", resp.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	return cmd
}

func (a *App) registerCmd() *cobra.Command {
	var (
		username string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = a.promptLine("Username: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = a.promptLine("Email: "); err != nil {
					return err
				}
			}
			password, err := a.readPassword("Password: ")
			if err != nil {
				return err
			}
			if err := form.Apply(
				form.Required("username", username),
				form.Email("email", email),
				form.MinLen("password", password, minPasswordLength),
			); err != nil {
				return err
			}

			resp, err := a.client.Auth.Register(cmd.Context(), username, email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %s", describe(err))
			}

			a.manager.SetUser(&resp.User)
			fmt.Fprintf(a.out, "Account created. Signed in as %s.\n", resp.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session",
		RunE: func(*cobra.Command, []string) error {
			if err := a.manager.SignOut(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out.")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Short:   "Show the signed-in user",
		PreRunE: a.requireAuth,
		RunE: func(*cobra.Command, []string) error {
			user, _ := a.manager.Current()
			role := user.Role
			if role == "" {
				role = "member"
			}
			fmt.Fprintf(a.out, "%s <%s> (%s)\n", user.Username, user.Email, role)
			return nil
		},
	}
}
