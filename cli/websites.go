package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-crawler-client/internal/utils"
)

var websitesCmd = &cobra.Command{
	Use:   "websites",
	Short: "List the websites you may submit credentials for",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		sites, err := app.websites.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(sites) == 0 {
			fmt.Println("No websites available. Please contact an administrator.")
			return nil
		}

		t := table.New().Headers("ID", "NAME", "URL", "ACTIVE")
		for _, site := range sites {
			active := "no"
			if site.Active {
				active = "yes"
			}
			t.Row(site.WebsiteID, site.Name, utils.Value(site.URL), active)
		}
		fmt.Println(t)
		return nil
	},
}
