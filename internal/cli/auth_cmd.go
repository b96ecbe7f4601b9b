package cli

import (
	"fmt"

	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newInitAdminCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "init-admin",
		Short: "Create the first administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Auth.InitAdmin(ctxOf(cmd), username, password)
			if err != nil {
				return err
			}
			out(cmd).Printf("%s Created administrator %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(u.Username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Administrator name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Administrator password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var username, password string
	var export bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (username == "" || password == "") && app.interactive() {
				if err := loginForm(&username, &password).RunWithContext(ctxOf(cmd)); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			sess, err := app.Auth.Login(ctxOf(cmd), username, password)
			if err != nil {
				return err
			}
			if export {
				out(cmd).Printf("export %s=%s\n", TokenEnv, sess.Token)
				return nil
			}
			out(cmd).Println(sess.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "User name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&export, "export", false, "Print a shell export line instead of the bare token")

	return cmd
}

// loginForm asks for the missing credentials.
func loginForm(username, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Имя пользователя").Value(username).Validate(requireNonEmpty),
			huh.NewInput().Title("Пароль").EchoMode(huh.EchoModePassword).Value(password).Validate(requireNonEmpty),
		),
	).WithTheme(cardcalHuhTheme()).WithShowHelp(false)
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			u, err := app.Auth.CurrentUser(ctxOf(cmd), token)
			if err != nil {
				return err
			}
			out(cmd).Printf("%s (%s)\n", formatter.Bold(u.Username), formatter.RoleBadge(u.Role))
			return nil
		},
	}
}
