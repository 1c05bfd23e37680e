package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the Site Crawler API",
	Long: `Login to the Site Crawler API and persist the session locally.

Prompts for email and password when the flags are not given.

Examples:
  sitecrawler login
  sitecrawler login --email user@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" || password == "" {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Placeholder("user@example.com").
					Value(&email),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		user, err := app.gateway.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Login successful"))
		fmt.Printf("%s %s <%s>\n", labelStyle.Render("Logged in as"), user.DisplayName(), user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		app.gateway.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
}
