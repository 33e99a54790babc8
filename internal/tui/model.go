package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"gemma-chat/internal/chatui"
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusInput
)

// Mensajes internos del programa.
type (
	// stateMsg entrega una instantánea del controlador al bucle de la UI.
	stateMsg struct{ state chatui.State }

	// confirmRequestMsg abre el diálogo de confirmación. La respuesta
	// viaja de vuelta por el canal.
	confirmRequestMsg struct {
		prompt string
		reply  chan bool
	}

	// opErrMsg reporta el error de una operación despachada.
	opErrMsg struct{ err error }

	// sendRejectedMsg devuelve el texto de un envío que el controlador
	// rechazó, para restaurar el borrador en el área de texto.
	sendRejectedMsg struct {
		text string
		err  error
	}
)

// Model es el modelo Bubble Tea de la sesión de chat.
type Model struct {
	ctx    context.Context
	ctrl   *chatui.Controller
	logger *zap.Logger

	program   *tea.Program
	programMu sync.Mutex

	// Última instantánea publicada por el controlador.
	state  chatui.State
	cursor int

	// Componentes de UI.
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdownRenderer

	// Estado de UI.
	width    int
	height   int
	ready    bool
	focus    focusArea
	confirm  *confirmRequestMsg
	notice   string
	fatalErr error
	quitting bool
}

// NewModel construye el modelo; el controlador se adjunta con SetController.
func NewModel(ctx context.Context, logger *zap.Logger) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Type a message... (Enter to send, Tab to switch panes, Ctrl+C to quit)"
	ta.CharLimit = 0
	ta.SetHeight(TextareaHeight)
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	renderer, err := newMarkdownRenderer(80)
	if err != nil {
		return nil, err
	}

	return &Model{
		ctx:      ctx,
		logger:   logger,
		textarea: ta,
		spinner:  sp,
		renderer: renderer,
		focus:    focusSidebar,
	}, nil
}

// SetController adjunta el controlador que ejecuta las operaciones.
func (m *Model) SetController(ctrl *chatui.Controller) {
	m.ctrl = ctrl
}

// SetProgram guarda la referencia al programa para los envíos asíncronos.
func (m *Model) SetProgram(p *tea.Program) {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	m.program = p
}

func (m *Model) getProgram() *tea.Program {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	return m.program
}

// Init arranca el parpadeo del cursor y el spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// AsView adapta el modelo a chatui.View reinyectando cada instantánea
// en el bucle del programa.
func (m *Model) AsView() chatui.View {
	return programView{model: m}
}

// AsConfirmer adapta el modelo a chatui.Confirmer con un diálogo modal.
func (m *Model) AsConfirmer() chatui.Confirmer {
	return programConfirmer{model: m}
}

type programView struct{ model *Model }

func (v programView) Render(state chatui.State) {
	if p := v.model.getProgram(); p != nil {
		p.Send(stateMsg{state: state})
	}
}

type programConfirmer struct{ model *Model }

// Confirm bloquea la goroutine de la operación hasta que el usuario
// responda en el diálogo. Nunca se llama desde el bucle de la UI.
func (c programConfirmer) Confirm(prompt string) bool {
	p := c.model.getProgram()
	if p == nil {
		return false
	}
	reply := make(chan bool)
	p.Send(confirmRequestMsg{prompt: prompt, reply: reply})
	return <-reply
}

// dispatch ejecuta un comando del controlador como tea.Cmd.
func (m *Model) dispatch(cmd chatui.Command, arg string) tea.Cmd {
	return func() tea.Msg {
		if err := m.ctrl.Dispatch(m.ctx, cmd, arg); err != nil {
			return opErrMsg{err: err}
		}
		return nil
	}
}

// dispatchSend envía el texto; si el controlador lo rechaza, el borrador
// viaja de vuelta para no perderlo.
func (m *Model) dispatchSend(text string) tea.Cmd {
	return func() tea.Msg {
		if err := m.ctrl.Dispatch(m.ctx, chatui.CommandSend, text); err != nil {
			return sendRejectedMsg{text: text, err: err}
		}
		return nil
	}
}
