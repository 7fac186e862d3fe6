package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RA1LGUN/AudioClipTool/server"
)

var rootCmd = &cobra.Command{
	Use:   "audiocliptool",
	Short: "AudioClipTool ingests audio and exports time-region clips.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
