// Package cli is the terminal frontend of the Site Crawler client:
// login, profile, and website-credential workflows rendered as
// interactive commands.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-crawler-client/internal/errors"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var rootCmd = &cobra.Command{
	Use:   "sitecrawler",
	Short: "Client for the Site Crawler API",
	Long: `sitecrawler is the terminal client for the Site Crawler API.

Login once and your session is kept in a local store until you logout or
the server rejects it. Gated commands (websites, credentials, user) need a
valid session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(errorStyle.Render(userMessage(err)))
	}
	return err
}

// userMessage turns a service error into the text the UI shows. Session
// expiry gets an explicit re-login instruction rather than the raw error.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errors.ErrSessionExpired):
		return "Session expired. Please login again."
	case errors.Is(err, errors.ErrUnauthenticated):
		return err.Error()
	case errors.Is(err, errors.ErrTimeout):
		return "Request timeout. Please check your connection and try again."
	default:
		return err.Error()
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(websitesCmd)
	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(portalCmd)
}
