package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facultyms/appraise/auth"
	"github.com/facultyms/appraise/session"
	"github.com/facultyms/appraise/token"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		mgr := auth.NewManager(store)
		rec := mgr.UserData()
		if rec == nil {
			return fmt.Errorf("not logged in; run 'appraise login'")
		}

		fmt.Printf("ID:          %s\n", rec.ID)
		fmt.Printf("Name:        %s\n", rec.Name)
		fmt.Printf("Email:       %s\n", rec.Email)
		fmt.Printf("Department:  %s\n", rec.Department)
		fmt.Printf("Role:        %s\n", roleLabel(rec.ResolveRole()))
		fmt.Printf("Credential:  %s\n", credentialLabel(rec.Token))
		return nil
	},
}

func roleLabel(r session.Role) string {
	if r == "" {
		return "(none)"
	}
	if !r.Known() {
		return string(r) + " (unrecognized)"
	}
	return string(r)
}

func credentialLabel(tok string) string {
	if tok == "" {
		return "absent"
	}
	switch token.Inspect(tok) {
	case token.StatusMalformed:
		return "malformed"
	case token.StatusExpired:
		return "expired"
	}
	return "valid"
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
