package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/filenotify/internal/config"
	"github.com/shaharia-lab/filenotify/internal/logger"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// NewEnqueueCmd returns the "enqueue" subcommand that queues an upload event
// from a JSON file for the consumer.
func NewEnqueueCmd(cfg *config.AppConfig) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue an upload event for asynchronous notification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ev storage.UploadEvent
			if err := readJSONFile(file, &ev); err != nil {
				return err
			}

			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			id, err := a.svc.SubmitUploadEvent(cmd.Context(), ev)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "queued upload event %d for file %s\n", id, ev.FileID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a JSON upload event")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
