package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gemma-chat/internal/chatui"
)

// Run monta el controlador sobre el modelo y ejecuta la sesión hasta que
// el usuario salga. route abre un chat concreto al arrancar.
func Run(ctx context.Context, backend chatui.Backend, location chatui.Location, logger *zap.Logger, route string) error {
	model, err := NewModel(ctx, logger)
	if err != nil {
		return errors.Wrap(err, "building terminal model")
	}

	ctrl := chatui.NewController(backend, model.AsView(), location, model.AsConfirmer(), logger)
	model.SetController(ctrl)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(program)

	go func() {
		if err := ctrl.Dispatch(ctx, chatui.CommandStart, route); err != nil {
			program.Send(opErrMsg{err: err})
		}
	}()

	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "running terminal session")
	}
	return model.FatalErr()
}
