package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RA1LGUN/AudioClipTool/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the AudioClipTool HTTP server",
	Long:  "Start the HTTP server providing the ingestion, playback and clip export API plus the web UI.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
