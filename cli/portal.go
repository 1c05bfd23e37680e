package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var portalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Work with external portal websites directly",
	Long: `Work with an external portal website through the backend scraper:
login to list its deals and download deal files.

Subcommands:
  login     Login to a portal website and list its deals
  download  Download a deal file

Examples:
  sitecrawler portal login --website fo1
  sitecrawler portal download --url https://fo1.altius.finance/files/deal10.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var portalLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to a portal website and list its deals",
	RunE: func(cmd *cobra.Command, args []string) error {
		website, _ := cmd.Flags().GetString("website")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if website == "" || username == "" || password == "" {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Website").Placeholder("fo1").Value(&website),
				huh.NewInput().Title("Username").Value(&username),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		result, err := app.portal.Login(cmd.Context(), website, username, password)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Portal login successful"))
		fmt.Printf("%s %s\n", labelStyle.Render("Session:"), result.SessionID)
		if len(result.Deals) == 0 {
			fmt.Println("No deals found.")
			return nil
		}

		t := table.New().Headers("ID", "NAME", "CATEGORY", "OWNER", "FILES")
		for _, deal := range result.Deals {
			t.Row(strconv.Itoa(deal.ID), deal.Name, deal.Category, deal.Owner, strconv.Itoa(len(deal.Files)))
		}
		fmt.Println(t)

		for _, deal := range result.Deals {
			for _, file := range deal.Files {
				if file.DownloadURL != "" {
					fmt.Printf("  %s %s\n", labelStyle.Render(file.Name+":"), file.DownloadURL)
				}
			}
		}
		return nil
	},
}

var portalDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a deal file through the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		fileURL, _ := cmd.Flags().GetString("url")
		sessionID, _ := cmd.Flags().GetString("session-id")
		outPath, _ := cmd.Flags().GetString("out")
		if fileURL == "" {
			return fmt.Errorf("--url is required")
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		name, err := app.portal.Download(cmd.Context(), fileURL, sessionID, &buf)
		if err != nil {
			return err
		}

		if outPath == "" {
			outPath = name
		}
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("File downloaded"))
		fmt.Printf("%s %s\n", labelStyle.Render("Saved to:"), outPath)
		return nil
	},
}

func init() {
	portalLoginCmd.Flags().String("website", "", "portal website identifier, e.g. fo1")
	portalLoginCmd.Flags().String("username", "", "portal username")
	portalLoginCmd.Flags().String("password", "", "portal password")

	portalDownloadCmd.Flags().String("url", "", "file download URL")
	portalDownloadCmd.Flags().String("session-id", "", "portal session id from a prior login")
	portalDownloadCmd.Flags().String("out", "", "output file path (defaults to the server-provided name)")

	portalCmd.AddCommand(portalLoginCmd)
	portalCmd.AddCommand(portalDownloadCmd)
}
