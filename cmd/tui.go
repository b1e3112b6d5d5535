package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsum/internal/shared"
	"github.com/desertthunder/ytsum/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultTUILog = "./tmp/ytsum-tui.log"

// TUI launches the interactive terminal UI over the summary library.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Log.File
	if path == "" {
		path = defaultTUILog
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := r.connect(); err != nil {
		return err
	}
	if r.library == nil {
		return fmt.Errorf("%w: summary library not initialized", shared.ErrServiceUnavailable)
	}

	model := ui.NewModel(ctx, r.library, r.opener)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
