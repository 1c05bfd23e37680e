package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-crawler-client/credentials"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Submit website credentials and fetch deals",
	Long: `Submit your credentials for one of your authorized websites. The
backend logs into the website on your behalf and returns the deals it
found.

Prompts for the website and credentials when the flags are not given.

Examples:
  sitecrawler credentials
  sitecrawler credentials --website fo1 --username me@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		website, _ := cmd.Flags().GetString("website")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		if website == "" {
			sites, err := app.websites.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sites) == 0 {
				fmt.Println("No websites available. Please contact an administrator.")
				return nil
			}
			options := make([]huh.Option[string], len(sites))
			for i, site := range sites {
				options[i] = huh.NewOption(site.Name, site.WebsiteID)
			}
			selectField := huh.NewSelect[string]().
				Title("Website").
				Options(options...).
				Value(&website)
			if err := huh.NewForm(huh.NewGroup(selectField)).Run(); err != nil {
				return err
			}
		}

		if username == "" || password == "" {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Website username").Value(&username),
				huh.NewInput().Title("Website password").EchoMode(huh.EchoModePassword).Value(&password),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		resp, err := app.credentials.Submit(cmd.Context(), credentials.SubmitRequest{
			Website:  website,
			Username: username,
			Password: password,
		})
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(resp.Message))
		if len(resp.Deals) == 0 {
			fmt.Println("No deals found.")
			return nil
		}
		fmt.Println(labelStyle.Render("Deals:"))
		for _, deal := range resp.Deals {
			fmt.Printf("  - %s\n", deal)
		}
		return nil
	},
}

func init() {
	credentialsCmd.Flags().String("website", "", "website identifier, e.g. fo1")
	credentialsCmd.Flags().String("username", "", "username for the website")
	credentialsCmd.Flags().String("password", "", "password for the website")
}
