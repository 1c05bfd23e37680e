package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-crawler-client/auth"
	"github.com/jrsteele09/go-crawler-client/internal/utils"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		user, err := app.gateway.CurrentUser()
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("Not logged in.")
			fmt.Println("Use 'sitecrawler login' to authenticate.")
			return nil
		}

		fmt.Println(successStyle.Render("Logged in"))
		fmt.Printf("%s %d\n", labelStyle.Render("User ID: "), user.ID)
		fmt.Printf("%s %s\n", labelStyle.Render("Name:    "), user.DisplayName())
		fmt.Printf("%s %s\n", labelStyle.Render("Email:   "), user.Email)
		if user.Role != nil {
			fmt.Printf("%s %s\n", labelStyle.Render("Role:    "), utils.Value(user.Role))
		}
		fmt.Printf("%s %t\n", labelStyle.Render("Verified:"), user.IsVerified)

		token, ok := app.gateway.Token()
		if !ok {
			fmt.Println(errorStyle.Render("No token stored; authenticated calls will fail until the next login."))
			return nil
		}
		if info, err := auth.ParseTokenInfo(token); err == nil && !info.ExpiresAt.IsZero() {
			if info.Expired() {
				fmt.Printf("%s expired at %s\n", labelStyle.Render("Token:   "), info.ExpiresAt.Format("2006-01-02 15:04:05"))
			} else {
				fmt.Printf("%s valid until %s\n", labelStyle.Render("Token:   "), info.ExpiresAt.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	},
}
