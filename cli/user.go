package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-crawler-client/internal/utils"
	"github.com/jrsteele09/go-crawler-client/users"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	Long: `Update the logged-in user's profile. Only the given flags are sent;
everything else stays unchanged. The stored session profile is refreshed
from the server's response.

Examples:
  sitecrawler user update --name Jane
  sitecrawler user update --email jane@example.com --password newsecret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		current, err := app.gateway.CurrentUser()
		if err != nil {
			return err
		}

		userID := current.ID
		if cmd.Flags().Changed("id") {
			userID, _ = cmd.Flags().GetInt("id")
		}

		var update users.Update
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			update.Name = utils.Ptr(name)
		}
		if cmd.Flags().Changed("last-name") {
			lastName, _ := cmd.Flags().GetString("last-name")
			update.LastName = utils.Ptr(lastName)
		}
		if cmd.Flags().Changed("email") {
			email, _ := cmd.Flags().GetString("email")
			update.Email = utils.Ptr(email)
		}
		if cmd.Flags().Changed("password") {
			password, _ := cmd.Flags().GetString("password")
			update.Password = utils.Ptr(password)
		}

		updated, err := app.users.Update(cmd.Context(), userID, update)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Profile updated"))
		fmt.Printf("%s %s <%s>\n", labelStyle.Render("Now:"), updated.DisplayName(), updated.Email)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		all, err := app.users.List(cmd.Context())
		if err != nil {
			return err
		}

		t := table.New().Headers("ID", "NAME", "EMAIL", "ROLE")
		for _, u := range all {
			t.Row(strconv.Itoa(u.ID), u.DisplayName(), u.Email, utils.Value(u.Role))
		}
		fmt.Println(t)
		return nil
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one user (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		u, err := app.users.Get(cmd.Context(), userID)
		if err != nil {
			return err
		}
		fmt.Printf("%s %d\n", labelStyle.Render("User ID:"), u.ID)
		fmt.Printf("%s %s\n", labelStyle.Render("Name:   "), u.DisplayName())
		fmt.Printf("%s %s\n", labelStyle.Render("Email:  "), u.Email)
		if u.Role != nil {
			fmt.Printf("%s %s\n", labelStyle.Render("Role:   "), utils.Value(u.Role))
		}
		return nil
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new user (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		lastName, _ := cmd.Flags().GetString("last-name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		created, err := app.users.CreateUser(cmd.Context(), users.Create{
			Name:     name,
			LastName: lastName,
			Email:    email,
			Password: password,
		})
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("User created"))
		fmt.Printf("%s %d <%s>\n", labelStyle.Render("ID:"), created.ID, created.Email)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		if err := app.users.Delete(cmd.Context(), userID); err != nil {
			return err
		}
		fmt.Println("User deleted.")
		return nil
	},
}

func init() {
	userUpdateCmd.Flags().Int("id", 0, "user id (defaults to the logged-in user)")
	userUpdateCmd.Flags().String("name", "", "first name")
	userUpdateCmd.Flags().String("last-name", "", "last name")
	userUpdateCmd.Flags().String("email", "", "email address")
	userUpdateCmd.Flags().String("password", "", "new password")

	userCreateCmd.Flags().String("name", "", "first name")
	userCreateCmd.Flags().String("last-name", "", "last name")
	userCreateCmd.Flags().String("email", "", "email address")
	userCreateCmd.Flags().String("password", "", "password")

	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userDeleteCmd)
}
