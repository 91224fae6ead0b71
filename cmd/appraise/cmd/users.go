package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Administer user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := currentSession()
		if err != nil {
			return err
		}
		accounts, err := newClient(store).Accounts(cmd.Context())
		if err != nil {
			return err
		}
		for _, a := range accounts {
			role := a.Role
			if role == "" {
				role = a.Designation
			}
			fmt.Printf("%-12s %-24s %-10s %s\n", a.ID, a.Name, a.Department, role)
		}
		return nil
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := currentSession()
		if err != nil {
			return err
		}
		a, err := newClient(store).Account(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("ID:          %s\n", a.ID)
		fmt.Printf("Name:        %s\n", a.Name)
		fmt.Printf("Email:       %s\n", a.Email)
		fmt.Printf("Department:  %s\n", a.Department)
		fmt.Printf("Role:        %s\n", a.Role)
		fmt.Printf("Designation: %s\n", a.Designation)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd, usersGetCmd)
	rootCmd.AddCommand(usersCmd)
}
