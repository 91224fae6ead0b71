package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/facultyms/appraise/gateway"
	"github.com/facultyms/appraise/session"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "appraise",
	Short: "appraise is a client for the faculty appraisal service",
	Long: `A command-line client for the faculty performance-appraisal service:
log in, fill self-appraisal form drafts, push them part by part, track the
approval chain and fetch the generated document.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("base-url", "http://localhost:5000", "appraisal API base URL")
	flags.String("data-dir", defaultDataDir(), "directory holding session and draft state")
	flags.Bool("sealed-session", false, "encrypt the session slot at rest (passphrase from APPRAISE_SESSION_KEY)")
	flags.Duration("timeout", 30*time.Second, "per-request timeout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	must(viper.BindPFlag("base_url", flags.Lookup("base-url")))
	must(viper.BindPFlag("data_dir", flags.Lookup("data-dir")))
	must(viper.BindPFlag("sealed_session", flags.Lookup("sealed-session")))
	must(viper.BindPFlag("timeout", flags.Lookup("timeout")))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func initConfig() error {
	// A .env next to the working directory is honored the same way the web
	// client honored its build-time env file.
	_ = godotenv.Load()

	viper.SetEnvPrefix("APPRAISE")
	viper.AutomaticEnv()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".appraise"
	}
	return filepath.Join(home, ".appraise")
}

// sessionStore builds the configured session slot: a plain JSON file by
// default, or a sealed slot when requested.
func sessionStore() (session.Store, error) {
	dir := viper.GetString("data_dir")
	if viper.GetBool("sealed_session") {
		pass := os.Getenv("APPRAISE_SESSION_KEY")
		if pass == "" {
			return nil, fmt.Errorf("sealed session requires APPRAISE_SESSION_KEY to be set")
		}
		return session.NewSealedStore(filepath.Join(dir, "session.sealed"), pass)
	}
	return session.NewFileStore(filepath.Join(dir, "session.json")), nil
}

func newClient(store session.Store) *gateway.Client {
	return gateway.New(viper.GetString("base_url"), store,
		gateway.WithHTTPClient(&http.Client{Timeout: viper.GetDuration("timeout")}),
		gateway.WithNotifier(stderrNotifier{}),
		gateway.WithLogger(slog.Default()),
	)
}

// stderrNotifier is the CLI's stand-in for the web client's toast: failure
// summaries go to stderr, leaving stdout for command output.
type stderrNotifier struct{}

func (stderrNotifier) Notify(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}
