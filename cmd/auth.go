package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"absolute-cinema-cli/auth"
	"absolute-cinema-cli/model"
	"absolute-cinema-cli/service"
	"absolute-cinema-cli/store"
	"absolute-cinema-cli/validate"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				v, err := (&promptui.Prompt{Label: "Email"}).Run()
				if err != nil {
					return err
				}
				email = strings.TrimSpace(v)
			}
			if password == "" {
				v, err := (&promptui.Prompt{Label: "Password", Mask: '*'}).Run()
				if err != nil {
					return err
				}
				password = v
			}
			creds := model.Credentials{Email: email, Password: password}
			if err := validate.New().Credentials(&creds); err != nil {
				return err
			}

			token, err := a.client.Login(cmd.Context(), creds.Email, creds.Password)
			if err != nil {
				return err
			}
			if err := store.SaveAuthToken(token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", creds.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.ClearAuthToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.GetCurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), table.Row{"Field", "Value"})
			t.AppendRow(table.Row{"Name", user.FullName})
			t.AppendRow(table.Row{"Email", user.Email})
			t.AppendRow(table.Row{"Role", user.Role})
			t.AppendRow(table.Row{"Points", user.MemberPoints})

			t.AppendRow(table.Row{"Token", tokenOrigin(a.tokens)})
			if raw, ok := a.tokens.Token(); ok {
				if claims, err := auth.ParseClaims(raw); err == nil && !claims.ExpiresAt.IsZero() {
					t.AppendRow(table.Row{"Session", sessionStatus(claims, time.Now())})
				}
			}
			t.Render()
			return nil
		},
	}
}

// tokenOrigin says where the bearer token comes from. A stored login wins
// over the environment variable until logout.
func tokenOrigin(tokens service.TokenSource) string {
	switch src := tokens.(type) {
	case *auth.Chain:
		switch _, from := src.Lookup(); from {
		case auth.SourceStored:
			return "stored login (used instead of " + auth.EnvTokenKey + " until logout)"
		case auth.SourceEnv:
			return auth.EnvTokenKey + " (saved for later runs)"
		}
		return "none"
	case auth.Static:
		return "--token flag"
	default:
		return "custom"
	}
}

func sessionStatus(claims auth.Claims, now time.Time) string {
	if claims.Expired(now) {
		return "expired, run login again"
	}
	return "valid for " + claims.Remaining(now).Truncate(time.Minute).String()
}
