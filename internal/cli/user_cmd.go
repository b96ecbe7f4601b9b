package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/spf13/cobra"
)

// findUser matches input against user names, full IDs and ID prefixes, in
// that order.
func findUser(users []*domain.User, input string) (*domain.User, error) {
	if input == "" {
		return nil, fmt.Errorf("user is required")
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, input) {
			return u, nil
		}
	}
	for _, u := range users {
		if u.ID == input {
			return u, nil
		}
	}

	var matches []*domain.User
	for _, u := range users {
		if strings.HasPrefix(u.ID, input) {
			matches = append(matches, u)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("user not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("user ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func resolveUser(ctx context.Context, app *App, token, input string) (*domain.User, error) {
	users, err := app.Users.List(ctx, token)
	if err != nil {
		return nil, err
	}
	return findUser(users, input)
}

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserRoleListCmd("executors", "List users who can execute cards",
			func(ctx context.Context, token string) ([]*domain.User, error) {
				return app.Users.ListExecutors(ctx, token)
			}),
		newUserRoleListCmd("controllers", "List users who can control cards",
			func(ctx context.Context, token string) ([]*domain.User, error) {
				return app.Users.ListControllers(ctx, token)
			}),
		newUserUpdateCmd(app),
		newUserRemoveCmd(app),
		newUserPasswdCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var username, password string
	role := domain.RoleUser

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			u, err := app.Auth.Register(ctxOf(cmd), token, username, password, role)
			if err != nil {
				return err
			}
			out(cmd).Printf("%s Created %s %s\n", formatter.StyleGreen.Render("✔"), formatter.RoleBadge(u.Role), formatter.Bold(u.Username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "User name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (at least 6 characters)")
	cmd.Flags().Var(&roleValue{r: &role}, "role", "Role: admin, user or controller")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			users, err := app.Users.List(ctxOf(cmd), token)
			if err != nil {
				return err
			}
			printUsers(cmd, users)
			return nil
		},
	}
}

func newUserRoleListCmd(use, short string, list func(context.Context, string) ([]*domain.User, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			users, err := list(ctxOf(cmd), token)
			if err != nil {
				return err
			}
			printUsers(cmd, users)
			return nil
		},
	}
}

func printUsers(cmd *cobra.Command, users []*domain.User) {
	if len(users) == 0 {
		out(cmd).Println("No users found.")
		return
	}
	out(cmd).Printf("%s", formatter.FormatUserList(users))
}

func newUserUpdateCmd(app *App) *cobra.Command {
	var username string
	var role domain.Role

	cmd := &cobra.Command{
		Use:   "update USER",
		Short: "Rename a user or change their role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			current, err := resolveUser(ctx, app, token, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("username") {
				username = current.Username
			}
			if !cmd.Flags().Changed("role") {
				role = current.Role
			}
			u, err := app.Users.Update(ctx, token, current.ID, username, role)
			if err != nil {
				return err
			}
			out(cmd).Printf("%s Updated %s (%s)\n", formatter.StyleGreen.Render("✔"), formatter.Bold(u.Username), formatter.RoleBadge(u.Role))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "New user name")
	cmd.Flags().Var(&roleValue{r: &role}, "role", "New role: admin, user or controller")

	return cmd
}

func newUserRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove USER",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			u, err := resolveUser(ctx, app, token, args[0])
			if err != nil {
				return err
			}
			if err := app.Users.Delete(ctx, token, u.ID); err != nil {
				return err
			}
			out(cmd).Printf("Removed user %s\n", formatter.Bold(u.Username))
			return nil
		},
	}
}

func newUserPasswdCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd USER",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			u, err := resolveUser(ctx, app, token, args[0])
			if err != nil {
				return err
			}
			if err := app.Users.ChangePassword(ctx, token, u.ID, password); err != nil {
				return err
			}
			out(cmd).Printf("Password changed for %s\n", formatter.Bold(u.Username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "New password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
