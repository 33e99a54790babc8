package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"gemma-chat/internal/api"
	"gemma-chat/internal/chatui"
	"gemma-chat/internal/domain"
)

type keyMap struct {
	CycleFocus key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	NewChat    key.Binding
	DeleteChat key.Binding
	Refresh    key.Binding
}

var keys = keyMap{
	CycleFocus: key.NewBinding(key.WithKeys("tab")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c")),
	Up:         key.NewBinding(key.WithKeys("up", "k")),
	Down:       key.NewBinding(key.WithKeys("down", "j")),
	Select:     key.NewBinding(key.WithKeys("enter")),
	NewChat:    key.NewBinding(key.WithKeys("n")),
	DeleteChat: key.NewBinding(key.WithKeys("d")),
	Refresh:    key.NewBinding(key.WithKeys("r")),
}

// Update procesa los mensajes del programa.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case stateMsg:
		m.applyState(msg.state)
		return m, nil

	case confirmRequestMsg:
		confirm := msg
		m.confirm = &confirm
		return m, nil

	case opErrMsg:
		return m.handleOpError(msg.err)

	case sendRejectedMsg:
		// Un rechazo previo a la red no puede costar el borrador.
		if restorable(msg.err) && strings.TrimSpace(m.textarea.Value()) == "" {
			m.textarea.SetValue(msg.text)
		}
		return m.handleOpError(msg.err)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// El diálogo de confirmación captura todo el teclado.
		if m.confirm != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				m.confirm.reply <- true
				m.confirm = nil
			case "n", "N", "esc":
				m.confirm.reply <- false
				m.confirm = nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CycleFocus):
			if m.focus == focusSidebar {
				m.focus = focusInput
				m.textarea.Focus()
				cmds = append(cmds, textarea.Blink)
			} else {
				m.focus = focusSidebar
				m.textarea.Blur()
			}
			return m, tea.Batch(cmds...)
		}

		if m.focus == focusSidebar {
			return m.updateSidebar(msg)
		}
		return m.updateInput(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.state.Chats)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Select):
		if chat, ok := m.cursorChat(); ok {
			m.notice = ""
			return m, m.dispatch(chatui.CommandOpen, chat.ID)
		}
	case key.Matches(msg, keys.NewChat):
		m.notice = ""
		return m, m.dispatch(chatui.CommandNew, "")
	case key.Matches(msg, keys.DeleteChat):
		if chat, ok := m.cursorChat(); ok {
			m.notice = ""
			return m, m.dispatch(chatui.CommandDelete, chat.ID)
		}
	case key.Matches(msg, keys.Refresh):
		m.notice = ""
		return m, m.dispatch(chatui.CommandRefresh, "")
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		text := strings.TrimSpace(m.textarea.Value())
		if text == "" {
			return m, nil
		}
		m.textarea.Reset()
		m.notice = ""
		return m, m.dispatchSend(text)
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// applyState integra una instantánea del controlador en la UI.
func (m *Model) applyState(state chatui.State) {
	wasTyping := m.state.Typing
	m.state = state

	if m.cursor >= len(state.Chats) {
		m.cursor = len(state.Chats) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// Mantener el cursor sobre el chat activo tras una resincronización.
	if state.ActiveChatID != "" {
		for i, chat := range state.Chats {
			if chat.ID == state.ActiveChatID {
				m.cursor = i
				break
			}
		}
	}

	if m.ready {
		wasAtBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.renderThread())
		if wasAtBottom || state.Typing != wasTyping {
			m.viewport.GotoBottom()
		}
	}
}

func (m *Model) handleOpError(err error) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(err, chatui.ErrNoCredential), errors.Is(err, api.ErrUnauthenticated):
		m.fatalErr = err
		m.quitting = true
		return m, tea.Quit
	case errors.Is(err, api.ErrNoResult):
		// Solo el arranque propaga fallos de transporte hasta aquí.
		m.fatalErr = err
		m.quitting = true
		return m, tea.Quit
	case errors.Is(err, chatui.ErrBusy):
		m.notice = "A reply is still on its way"
	case errors.Is(err, chatui.ErrNoActiveChat):
		m.notice = "Open a chat first"
	case errors.Is(err, chatui.ErrEmptyMessage):
		// El vacío ya se filtra en la entrada.
	default:
		m.notice = err.Error()
	}
	return m, nil
}

// restorable indica si el envío se rechazó antes de tocar la red.
func restorable(err error) bool {
	return errors.Is(err, chatui.ErrBusy) || errors.Is(err, chatui.ErrNoActiveChat)
}

func (m *Model) cursorChat() (domain.Chat, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Chats) {
		return domain.Chat{}, false
	}
	return m.state.Chats[m.cursor], true
}

// FatalErr expone el error que cerró la sesión, si lo hubo.
func (m *Model) FatalErr() error {
	return m.fatalErr
}
