package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/yatube/internal/auth"
	"github.com/sakif/yatube/internal/form"
	"github.com/sakif/yatube/internal/service"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCmd(a))
	return cmd
}

func newUserCreateCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a password account",
		Long:  "Create a password account. The password can also come from YATUBE_PASSWORD so it stays out of shell history.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("YATUBE_PASSWORD")
			}

			// Same rules as the signup page.
			f := &form.SignupForm{Username: username, Password: password, PasswordConfirm: password}
			if !f.Validate() {
				return formError(f.Errors)
			}

			// Tokens signed here are thrown away; the secret only has to be valid.
			tokens, err := auth.NewTokenService("yatubectl-unused-secret", 0)
			if err != nil {
				return err
			}
			accounts := service.NewAuthService(a.db, tokens, auth.NewPasswordService(), a.logger)

			user, err := accounts.CreateUser(cmd.Context(), f.Username, f.Password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password (default: $YATUBE_PASSWORD)")
	return cmd
}
