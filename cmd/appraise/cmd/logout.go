package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facultyms/appraise/auth"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		mgr := auth.NewManager(store)
		if !mgr.Authenticated() {
			fmt.Println("No active session.")
			return nil
		}
		if err := mgr.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
