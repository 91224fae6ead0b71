package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

const banner = `
                                  _
   __ _ _ __  _ __  _ __ __ _(_)___  ___
  / _` + "`" + ` | '_ \| '_ \| '__/ _` + "`" + ` | / __|/ _ \
 | (_| | |_) | |_) | | | (_| | \__ \  __/
  \__,_| .__/| .__/|_|  \__,_|_|___/\___|
       |_|   |_|
`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Faculty Appraisal Client - Version %s\x1b[0m\n\n", Version)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		printBanner()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
