package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/filenotify/internal/config"
	"github.com/shaharia-lab/filenotify/internal/logger"
	"github.com/shaharia-lab/filenotify/internal/notification"
)

// NewDispatchCmd returns the "dispatch" subcommand that sends one request
// from a JSON file and prints the report.
func NewDispatchCmd(cfg *config.AppConfig) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Send one notification request and print the per-channel report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req notification.Request
			if err := readJSONFile(file, &req); err != nil {
				return err
			}

			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			report, err := a.svc.Dispatch(cmd.Context(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a JSON dispatch request")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readJSONFile(path string, v any) error {
	//nolint:gosec // path comes from the operator's command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
