package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RA1LGUN/AudioClipTool/config"
	"github.com/RA1LGUN/AudioClipTool/logger"
	"github.com/RA1LGUN/AudioClipTool/workspace"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired workspace assets and exit",
	Long:  "Run one expiry sweep over the workspace directory, removing assets older than the configured TTL.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		store, err := workspace.New(cfg.WorkDir, cfg.AssetTTL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		store.Sweep()
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
