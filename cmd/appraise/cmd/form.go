package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/facultyms/appraise/auth"
	"github.com/facultyms/appraise/form"
	"github.com/facultyms/appraise/gateway"
	"github.com/facultyms/appraise/session"
)

// sectionPart maps draft sections onto the form parts the API stores.
var sectionPart = map[string]gateway.FormPart{
	form.SectionProfile:        gateway.PartA,
	form.SectionTeaching:       gateway.PartB,
	form.SectionResearch:       gateway.PartC,
	form.SectionAdministrative: gateway.PartD,
	form.SectionDevelopment:    gateway.PartE,
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Work with appraisal form drafts and submissions",
}

var formFillCmd = &cobra.Command{
	Use:   "fill <section> <field=value>...",
	Short: "Set fields in a local draft section",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		section := args[0]
		if _, ok := sectionPart[section]; !ok {
			return fmt.Errorf("unknown section %q (one of: %s)", section, strings.Join(form.Sections, ", "))
		}
		update, err := parseFields(args[1:])
		if err != nil {
			return err
		}

		rec, err := currentUser()
		if err != nil {
			return err
		}
		drafts, err := openDrafts()
		if err != nil {
			return err
		}
		defer drafts.Close()

		agg := drafts.LoadDraft(rec.ID)
		agg.Update(section, update)
		if err := drafts.SaveDraft(rec.ID, agg); err != nil {
			return err
		}
		fmt.Printf("%s: %d%% complete\n", section, agg.Progress(section))
		return nil
	},
}

var formProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show per-section draft completion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := currentUser()
		if err != nil {
			return err
		}
		drafts, err := openDrafts()
		if err != nil {
			return err
		}
		defer drafts.Close()

		agg := drafts.LoadDraft(rec.ID)
		for _, s := range form.Sections {
			fmt.Printf("%-16s %3d%%\n", s, agg.Progress(s))
		}
		return nil
	},
}

var formPushCmd = &cobra.Command{
	Use:   "push <section>",
	Short: "Upload a draft section to the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section := args[0]
		part, ok := sectionPart[section]
		if !ok {
			return fmt.Errorf("unknown section %q", section)
		}

		store, rec, err := currentSession()
		if err != nil {
			return err
		}
		drafts, err := openDrafts()
		if err != nil {
			return err
		}
		defer drafts.Close()

		agg := drafts.LoadDraft(rec.ID)
		data := agg.Section(section)
		if len(data) == 0 {
			return fmt.Errorf("section %q has no draft data", section)
		}

		client := newClient(store)
		res, err := client.SaveFormPart(cmd.Context(), rec.Department, rec.ID, part, data)
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var formPullCmd = &cobra.Command{
	Use:   "pull <section>",
	Short: "Merge the server's copy of a section into the local draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section := args[0]
		part, ok := sectionPart[section]
		if !ok {
			return fmt.Errorf("unknown section %q", section)
		}

		store, rec, err := currentSession()
		if err != nil {
			return err
		}
		client := newClient(store)
		data, err := client.FetchFormPart(cmd.Context(), rec.Department, rec.ID, part)
		if err != nil {
			return err
		}

		drafts, err := openDrafts()
		if err != nil {
			return err
		}
		defer drafts.Close()

		agg := drafts.LoadDraft(rec.ID)
		agg.Update(section, data)
		if err := drafts.SaveDraft(rec.ID, agg); err != nil {
			return err
		}
		fmt.Printf("%s: %d%% complete\n", section, agg.Progress(section))
		return nil
	},
}

var formStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the submission status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rec, err := currentSession()
		if err != nil {
			return err
		}
		client := newClient(store)
		status, err := client.FormStatus(cmd.Context(), rec.Department, rec.ID)
		if err != nil {
			return err
		}

		fmt.Printf("Status: %s\n", status.Status)
		parts := make([]string, 0, len(status.Parts))
		for p := range status.Parts {
			parts = append(parts, p)
		}
		sort.Strings(parts)
		for _, p := range parts {
			mark := " "
			if status.Parts[p] {
				mark = "x"
			}
			fmt.Printf("  [%s] Part %s\n", mark, p)
		}
		return nil
	},
}

var formSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the form for approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rec, err := currentSession()
		if err != nil {
			return err
		}
		client := newClient(store)
		res, err := client.SubmitFinalForm(cmd.Context(), rec.Department, rec.ID)
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var formDocCmd = &cobra.Command{
	Use:   "doc <output-file>",
	Short: "Download the generated appraisal document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rec, err := currentSession()
		if err != nil {
			return err
		}
		client := newClient(store)
		doc, err := client.GenerateDoc(cmd.Context(), rec.Department, rec.ID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], doc, 0o644); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(doc), args[0])
		return nil
	},
}

// parseFields turns key=value arguments into section data. Values that parse
// as JSON keep their type (numbers, booleans, nested objects); everything
// else is a string.
func parseFields(args []string) (form.Data, error) {
	out := make(form.Data, len(args))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(val), &parsed); err == nil {
			out[key] = parsed
		} else {
			out[key] = val
		}
	}
	return out, nil
}

func currentUser() (*session.Record, error) {
	store, err := sessionStore()
	if err != nil {
		return nil, err
	}
	rec := auth.NewManager(store).UserData()
	if rec == nil {
		return nil, fmt.Errorf("not logged in; run 'appraise login'")
	}
	return rec, nil
}

// currentSession is currentUser plus the department check the namespaced
// API paths need.
func currentSession() (session.Store, *session.Record, error) {
	store, err := sessionStore()
	if err != nil {
		return nil, nil, err
	}
	rec := auth.NewManager(store).UserData()
	if rec == nil {
		return nil, nil, fmt.Errorf("not logged in; run 'appraise login'")
	}
	if rec.Department == "" {
		return nil, nil, fmt.Errorf("session record has no department; log in again")
	}
	return store, rec, nil
}

func openDrafts() (*form.DraftStore, error) {
	dir := viper.GetString("data_dir")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return form.OpenDraftStore(filepath.Join(dir, "drafts.db"))
}

func init() {
	formCmd.AddCommand(formFillCmd, formProgressCmd, formPushCmd, formPullCmd,
		formStatusCmd, formSubmitCmd, formDocCmd)
	rootCmd.AddCommand(formCmd)
}
