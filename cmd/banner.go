package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bannerLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	bannerBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
)

// printBanner writes the startup banner. It is the only output visible in
// the terminal during normal operation; structured logs go to the log file.
func printBanner(w io.Writer, version, serverURL, logFile string, channels []string) {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, bannerLabel.Render(label), value)
	}
	if len(channels) == 0 {
		channels = []string{"none"}
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		bannerTitle.Render("filenotify "+version),
		"",
		row("API", serverURL),
		row("Metrics", serverURL+"/metrics"),
		row("Channels", fmt.Sprint(channels)),
		row("Logs", logFile),
	)
	_, _ = fmt.Fprintln(w, bannerBox.Render(body))
}
