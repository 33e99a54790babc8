package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"gemma-chat/internal/chatui"
)

// recalculateLayout ajusta las dimensiones de los componentes.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	mainWidth := m.width - SidebarWidth - 2
	if mainWidth < 20 {
		mainWidth = 20
	}
	viewportHeight := m.height - HeaderHeight - TextareaHeight - textAreaStyle.GetVerticalFrameSize() - FooterHeight
	if viewportHeight < MinViewportHeight {
		viewportHeight = MinViewportHeight
	}

	m.renderer.SetWidth(mainWidth - 4)
	m.textarea.SetWidth(mainWidth - textAreaStyle.GetHorizontalFrameSize())

	if !m.ready {
		m.viewport = viewport.New(mainWidth, viewportHeight)
		m.ready = true
		m.viewport.SetContent(m.renderThread())
		m.viewport.GotoBottom()
	} else {
		m.viewport.Width = mainWidth
		m.viewport.Height = viewportHeight
		m.viewport.SetContent(m.renderThread())
	}
}

// View dibuja la pantalla completa.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	if m.confirm != nil {
		return m.renderConfirm()
	}

	sidebar := m.renderSidebar()
	main := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		textAreaStyle.Render(m.textarea.View()),
		m.renderFooter(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(sidebarTitleStyle.Render(" Chats "))
	b.WriteString("\n\n")

	if len(m.state.Chats) == 0 {
		b.WriteString(placeholderStyle.Render("No chats yet"))
		b.WriteString("\n")
	}
	for i, chat := range m.state.Chats {
		title := chat.Title
		if title == "" {
			title = chat.ID
		}
		title = truncate(title, SidebarWidth-4)

		style := chatRowStyle
		if chat.ID == m.state.ActiveChatID {
			style = chatRowActiveStyle
		}
		row := style.Render(title)
		if i == m.cursor && m.focus == focusSidebar {
			row = chatRowCursorStyle.Render("> ") + row
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if m.state.ListError != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(truncate(m.state.ListError, SidebarWidth-2)))
		b.WriteString("\n")
	}
	return sidebarStyle.Height(m.height).Render(b.String())
}

func (m *Model) renderHeader() string {
	title := "gemma-chat"
	if chat, ok := m.state.ActiveChat(); ok && chat.Title != "" {
		title = chat.Title
	}
	if m.state.Identity.Email != "" {
		title = fmt.Sprintf("%s — %s", title, m.state.Identity.Email)
	}
	return headerStyle.Render(" " + title + " ")
}

// renderThread dibuja el hilo del chat activo para el viewport.
func (m *Model) renderThread() string {
	if m.state.ActiveChatID == "" {
		return placeholderStyle.Render("Select a chat or press n to start a new one")
	}

	var parts []string
	for _, bubble := range m.state.Thread {
		parts = append(parts, m.renderBubble(bubble))
	}
	if m.state.ThreadError != "" {
		parts = append(parts, bubbleErrorStyle.Render(m.state.ThreadError))
	}
	if m.state.Typing {
		parts = append(parts, spinnerStyle.Render(m.spinner.View()+" Gemma is typing..."))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderBubble(bubble chatui.Bubble) string {
	switch bubble.Kind {
	case chatui.BubbleUser:
		label := userLabelStyle.Render("You")
		content := bubble.Content
		switch bubble.Status {
		case chatui.StatusPending:
			content = pendingStyle.Render(content + " …")
		case chatui.StatusFailed:
			content = failedStyle.Render(content + " ✗")
		}
		return label + "\n" + content
	case chatui.BubbleAssistant:
		return assistantLabelStyle.Render("Gemma") + "\n" + m.renderer.Render(bubble.Content)
	default:
		return bubbleErrorStyle.Render(bubble.Content)
	}
}

func (m *Model) renderFooter() string {
	if m.notice != "" {
		return noticeStyle.Render(" " + m.notice)
	}
	help := "tab: switch · enter: open/send · n: new · d: delete · r: refresh · ctrl+c: quit"
	return helpStyle.Render(" " + help)
}

func (m *Model) renderConfirm() string {
	box := lipgloss.JoinVertical(
		lipgloss.Left,
		confirmTitleStyle.Render(m.confirm.prompt),
		"",
		helpStyle.Render("y: confirm · n: cancel"),
	)
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		confirmBoxStyle.Render(box),
	)
}
