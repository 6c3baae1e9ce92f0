package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/filenotify/internal/config"
	"github.com/shaharia-lab/filenotify/internal/logger"
)

// NewPrefsCmd returns the "prefs" command group for tenant preferences.
func NewPrefsCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage tenant notification preferences",
	}
	cmd.AddCommand(newPrefsImportCmd(cfg))
	return cmd
}

func newPrefsImportCmd(cfg *config.AppConfig) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace tenant preferences from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs, err := config.LoadPreferences(file)
			if err != nil {
				return err
			}

			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			for _, p := range prefs {
				saved, err := a.svc.SetPreference(cmd.Context(), p)
				if err != nil {
					return fmt.Errorf("tenant %s event %s: %w", p.TenantID, p.EventType, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d recipients for tenant %s on %s\n",
					len(saved.Recipients), saved.TenantID, saved.EventType)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a preferences YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
