package chatui

import (
	"context"

	"github.com/pkg/errors"
)

// Command identifica una acción del usuario sobre el controlador.
type Command string

const (
	CommandStart   Command = "start"
	CommandRefresh Command = "refresh"
	CommandNew     Command = "new"
	CommandOpen    Command = "open"
	CommandDelete  Command = "delete"
	CommandSend    Command = "send"
)

// Dispatch enruta un comando a su operación. El argumento depende del
// comando: ruta inicial para start, id para open y delete, texto para send.
func (c *Controller) Dispatch(ctx context.Context, cmd Command, arg string) error {
	switch cmd {
	case CommandStart:
		return c.Start(ctx, arg)
	case CommandRefresh:
		return c.RefreshList(ctx)
	case CommandNew:
		return c.CreateChat(ctx)
	case CommandOpen:
		return c.OpenChat(ctx, arg)
	case CommandDelete:
		return c.DeleteChat(ctx, arg)
	case CommandSend:
		return c.SendMessage(ctx, arg)
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}
