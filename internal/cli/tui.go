package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/macroplan/internal/planstore"
	"github.com/julianstephens/macroplan/internal/tui"
)

type TuiCmd struct {
	PlanID string `arg:"" optional:"" name:"plan" help:"Plan to open. Shows the plan list when omitted."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	if ctx.AutoBackup {
		ctx.PerformAutomaticBackup()
	}

	bg := context.Background()
	store := planstore.New(ctx.Store, ctx.Catalog)
	p := tea.NewProgram(tui.NewModel(bg, store, ctx.Catalog, c.PlanID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
