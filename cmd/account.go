package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"absolute-cinema-cli/model"
	"absolute-cinema-cli/service"
	"absolute-cinema-cli/validate"
)

type promptField struct {
	label string
	value *string
	mask  bool
}

// promptMissing asks for every field still empty after flag parsing.
func promptMissing(fields []promptField) error {
	for _, field := range fields {
		if *field.value != "" {
			continue
		}
		prompt := promptui.Prompt{Label: field.label}
		if field.mask {
			prompt.Mask = '*'
		}
		v, err := prompt.Run()
		if err != nil {
			return err
		}
		if !field.mask {
			v = strings.TrimSpace(v)
		}
		*field.value = v
	}
	return nil
}

func newRegisterCmd(a *app) *cobra.Command {
	var reg model.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  `A one-time code is emailed after sign up. Activate the account with verify before logging in.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := promptMissing([]promptField{
				{"Email", &reg.Email, false},
				{"Full name", &reg.FullName, false},
				{"Username", &reg.Username, false},
				{"Phone number", &reg.PhoneNumber, false},
				{"Password", &reg.Password, true},
			})
			if err != nil {
				return err
			}
			if err := validate.New().Registration(&reg); err != nil {
				return err
			}

			otp, err := a.client.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account created for %s. Check your email for the verification code", reg.Email)
			if !otp.ExpiryTime.IsZero() {
				fmt.Fprintf(out, " (valid until %s)", otp.ExpiryTime.Format("15:04"))
			}
			fmt.Fprintln(out, ".")
			fmt.Fprintf(out, "Then run: %s verify --email %s --otp <code>\n", appName, reg.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.Email, "email", "", "account email")
	f.StringVar(&reg.FullName, "name", "", "full name")
	f.StringVar(&reg.Username, "username", "", "unique username")
	f.StringVar(&reg.PhoneNumber, "phone", "", "phone number such as +60123456789")
	f.StringVar(&reg.Password, "password", "", "password (prompted when empty)")
	f.StringVar(&reg.ProfilePictureURL, "picture-url", "", "profile picture URL")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var check model.OTPCheck
	var resend bool
	var password string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Activate an account with the emailed code",
		Long:  `Use --resend with --password to have a new code sent.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if resend {
				err := promptMissing([]promptField{
					{"Email", &check.Email, false},
					{"Password", &password, true},
				})
				if err != nil {
					return err
				}
				if _, err := a.client.GenerateOTP(cmd.Context(), check.Email, password); err != nil {
					return err
				}
				fmt.Fprintf(out, "A new code was sent to %s.\n", check.Email)
				return nil
			}

			err := promptMissing([]promptField{
				{"Email", &check.Email, false},
				{"Code", &check.OTP, false},
			})
			if err != nil {
				return err
			}
			if err := validate.New().OTP(&check); err != nil {
				return err
			}
			if err := a.client.Verify(cmd.Context(), check.Email, check.OTP); err != nil {
				if errors.Is(err, service.ErrInvalidOTP) {
					return fmt.Errorf("%w, run verify --resend for a new one", err)
				}
				return err
			}
			fmt.Fprintln(out, "Account verified. You can log in now.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&check.Email, "email", "", "account email")
	f.StringVar(&check.OTP, "otp", "", "six digit code from the email")
	f.BoolVar(&resend, "resend", false, "send a new code instead of verifying")
	f.StringVar(&password, "password", "", "account password, needed with --resend")
	return cmd
}

func newPasswordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
		Long:  `Run forgot, then verify with the emailed code, then reset with the returned token.`,
	}

	var email string
	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "Email a password reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptMissing([]promptField{{"Email", &email, false}}); err != nil {
				return err
			}
			if err := a.client.RequestPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "A reset code was sent to %s.\n", email)
			return nil
		},
	}
	forgot.Flags().StringVar(&email, "email", "", "account email")

	var check model.OTPCheck
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Exchange the reset code for a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := promptMissing([]promptField{
				{"Email", &check.Email, false},
				{"Code", &check.OTP, false},
			})
			if err != nil {
				return err
			}
			if err := validate.New().OTP(&check); err != nil {
				return err
			}
			token, err := a.client.VerifyPasswordResetOTP(cmd.Context(), check.Email, check.OTP)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset token: %s\nThen run: %s password reset --email %s --token %s\n", token, appName, check.Email, token)
			return nil
		},
	}
	verify.Flags().StringVar(&check.Email, "email", "", "account email")
	verify.Flags().StringVar(&check.OTP, "otp", "", "six digit code from the email")

	var reset model.PasswordReset
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with the reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := promptMissing([]promptField{
				{"Email", &reset.Email, false},
				{"Reset token", &reset.Token, false},
				{"New password", &reset.NewPassword, true},
			})
			if err != nil {
				return err
			}
			if err := validate.New().PasswordReset(&reset); err != nil {
				return err
			}
			message, err := a.client.ResetPassword(cmd.Context(), reset)
			if err != nil {
				return err
			}
			if message == "" {
				message = "Password updated."
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	resetCmd.Flags().StringVar(&reset.Email, "email", "", "account email")
	resetCmd.Flags().StringVar(&reset.Token, "token", "", "token printed by password verify")
	resetCmd.Flags().StringVar(&reset.NewPassword, "new-password", "", "new password (prompted when empty)")

	cmd.AddCommand(forgot, verify, resetCmd)
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the signed in profile",
	}

	var changes model.ProfileUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Long:  `Only the flags given are changed. The rest of the profile is sent back unchanged.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			edits := []struct {
				flag  string
				value string
				apply func(*model.ProfileUpdate, string)
			}{
				{"name", changes.FullName, func(u *model.ProfileUpdate, v string) { u.FullName = v }},
				{"username", changes.Username, func(u *model.ProfileUpdate, v string) { u.Username = v }},
				{"email", changes.Email, func(u *model.ProfileUpdate, v string) { u.Email = v }},
				{"phone", changes.PhoneNumber, func(u *model.ProfileUpdate, v string) { u.PhoneNumber = v }},
				{"picture-url", changes.ProfilePictureURL, func(u *model.ProfileUpdate, v string) { u.ProfilePictureURL = v }},
				{"password", changes.Password, func(u *model.ProfileUpdate, v string) { u.Password = v }},
			}
			changed := false
			for _, e := range edits {
				changed = changed || f.Changed(e.flag)
			}
			if !changed {
				return errors.New("nothing to update, pass at least one field flag")
			}

			current, err := a.client.GetCurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			next := model.ProfileUpdateFrom(current)
			for _, e := range edits {
				if !f.Changed(e.flag) {
					continue
				}
				if e.flag == "password" {
					e.apply(&next, e.value)
				} else {
					e.apply(&next, strings.TrimSpace(e.value))
				}
			}
			if err := validate.New().ProfileUpdate(&next); err != nil {
				return err
			}

			user, err := a.client.UpdateUser(cmd.Context(), current.Id, next)
			if err != nil {
				return err
			}
			a.log.Info("profile updated", "user_id", user.Id)
			t := newTable(cmd.OutOrStdout(), table.Row{"Field", "Value"})
			t.AppendRow(table.Row{"Name", user.FullName})
			t.AppendRow(table.Row{"Username", user.Username})
			t.AppendRow(table.Row{"Email", user.Email})
			t.AppendRow(table.Row{"Phone", user.PhoneNumber})
			t.Render()
			if next.Email != current.Email {
				fmt.Fprintln(cmd.OutOrStdout(), "Email changed. Log in again with the new address.")
			}
			return nil
		},
	}
	f := update.Flags()
	f.StringVar(&changes.FullName, "name", "", "full name")
	f.StringVar(&changes.Username, "username", "", "username")
	f.StringVar(&changes.Email, "email", "", "email")
	f.StringVar(&changes.PhoneNumber, "phone", "", "phone number")
	f.StringVar(&changes.ProfilePictureURL, "picture-url", "", "profile picture URL")
	f.StringVar(&changes.Password, "password", "", "new password")

	cmd.AddCommand(update)
	return cmd
}
