package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change application settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCmd(app),
		newSettingsPathCmd(app),
	)

	return cmd
}

func settingsOf(app *App) (*config.Settings, error) {
	if app.Settings == nil {
		return nil, fmt.Errorf("settings are not loaded")
	}
	return app.Settings, nil
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsOf(app)
			if err != nil {
				return err
			}
			shown := *s
			if shown.Token.Secret != "" {
				shown.Token.Secret = "********"
			}
			data, err := yaml.Marshal(shown)
			if err != nil {
				return fmt.Errorf("encoding settings: %w", err)
			}
			out(cmd).Printf("%s", data)
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting (" + strings.Join(config.Keys, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsOf(app)
			if err != nil {
				return err
			}
			updated := *s
			if err := updated.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(app.SettingsPath, updated); err != nil {
				return err
			}
			*s = updated

			note := ""
			if args[0] == "db.path" {
				note = formatter.Dim(" (takes effect on next start)")
			}
			out(cmd).Printf("%s %s = %s%s\n", formatter.StyleGreen.Render("✔"), args[0], args[1], note)
			return nil
		},
	}
}

func newSettingsPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			out(cmd).Println(app.SettingsPath)
			return nil
		},
	}
}
