package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"bazaaradmin/cmd/bazaaradmin/ui"
	"bazaaradmin/internal/query"
)

// dashCmd opens the interactive dashboard.
var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive dashboard",
	RunE:  runDash,
}

func runDash(cmd *cobra.Command, args []string) error {
	if cfg.Auth.Token == "" {
		return fmt.Errorf("not logged in, run 'bazaaradmin login' first")
	}
	if cfg.SessionExpired() {
		return fmt.Errorf("session expired, run 'bazaaradmin login' again")
	}

	client := newClient()
	store := query.NewStore(logger.Named("cache"))
	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))

	app := ui.NewApp(client, store, styles, logger.Named("ui"))
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard crashed: %w", err)
	}
	return nil
}
