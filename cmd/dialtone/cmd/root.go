package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the CLI version string.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "dialtone",
	Short: "Dialtone is a softphone client",
	Long: `A command-line softphone client: place and manage voice calls through
the dialtone telephony backend, browse call history, and manage contacts.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
