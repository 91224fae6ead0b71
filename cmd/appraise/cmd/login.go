package cmd

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/facultyms/appraise/auth"
	"github.com/facultyms/appraise/gateway"
)

var loginCmd = &cobra.Command{
	Use:   "login <user-id>",
	Short: "Authenticate and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		// The locked buffer takes ownership of raw and wipes it on Destroy.
		buf := memguard.NewBufferFromBytes(raw)
		defer buf.Destroy()

		client := newClient(store)
		rec, err := client.Login(cmd.Context(), gateway.Credentials{
			ID:       args[0],
			Password: buf.String(),
		})
		if err != nil {
			return err
		}

		mgr := auth.NewManager(store)
		if err := mgr.Login(rec); err != nil {
			return err
		}

		role := mgr.UserRole()
		if role == "" {
			fmt.Printf("Logged in as %s\n", rec.Name)
			return nil
		}
		fmt.Printf("Logged in as %s (%s)\n", rec.Name, role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
