package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/filenotify/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "filenotify",
	Short: "File upload notification dispatcher",
	Long: `filenotify sends upload status notifications to each tenant's configured
channels (email, SMS, HTTP webhook) and records every delivery attempt.`,
	SilenceUsage: true,
}

// Execute loads configuration and runs the root command.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd.AddCommand(
		NewServeCmd(cfg),
		NewDispatchCmd(cfg),
		NewEnqueueCmd(cfg),
		NewPrefsCmd(cfg),
		NewVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
