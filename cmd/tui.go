package cmd

import (
	"context"
	"fmt"

	"shelf/internal/config"
	"shelf/internal/db"
	"shelf/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func runBrowser(ctx context.Context) error {
	database, err := db.Open(cfg.Data.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	opts := ui.Options{
		QueryMode: cfg.Table.Mode == config.ModeQuery,
		Table: ui.ProductsOptions{
			PageSize:   cfg.Table.PageSize,
			PageSizes:  cfg.Table.PageSizes,
			WindowSize: cfg.Table.WindowSize,
			Debounce:   cfg.Debounce(),
		},
	}

	logger.Info().Str("db", cfg.Data.DBPath).Str("mode", cfg.Table.Mode).Msg("starting browser")
	p := tea.NewProgram(ui.New(database, opts, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
