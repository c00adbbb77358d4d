package system

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tyamagishi/kaizen/internal/cli"
	"github.com/tyamagishi/kaizen/internal/session"
	"github.com/tyamagishi/kaizen/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(appCtx *cli.Context) error {
	manager := session.NewManager(appCtx.Services, appCtx.Logger)
	unbind := manager.Bind(appCtx.Auth)
	defer unbind()

	// A persisted sign-in restores the session without a state change,
	// so start it explicitly.
	if user, err := appCtx.Auth.CurrentUser(context.Background()); err == nil {
		manager.Start(user)
	}

	p := tea.NewProgram(
		tui.NewModel(appCtx.Auth, manager, appCtx.Services, appCtx.Logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
