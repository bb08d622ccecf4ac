// Package tui is a terminal chat client running the dialogue controller
// in-process, with the conversation's session held in the model.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"faqbot/internal/domain"
	"faqbot/internal/service"
)

// DialoguePort is the TUI-facing subset of the dialogue controller.
type DialoguePort interface {
	Handle(ctx context.Context, sess service.Session, query string) (domain.AnswerPayload, service.Session, error)
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	controller DialoguePort
	sess       service.Session
	input      textinput.Model
	viewport   viewport.Model
	lines      []string
	status     string
	ready      bool
}

// New creates a new chat model instance.
func New(controller DialoguePort, corpusSize int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		controller: controller,
		input:      ti,
		viewport:   vp,
		status:     fmt.Sprintf("Loaded %d corpus entries. Type to chat.", corpusSize),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			query := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			m.lines = append(m.lines, youStyle.Render("you: ")+query)
			payload, next, err := m.controller.Handle(context.Background(), m.sess, query)
			if err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.sess = next
				m.lines = append(m.lines, botStyle.Render("bot: ")+payload.Answer)
				if payload.Match != "" {
					m.status = fmt.Sprintf("matched %q (score %.4f)", payload.Match, payload.Score)
				} else {
					m.status = "no usable match"
				}
			}
			m.viewport.SetContent(strings.Join(m.lines, "\n"))
			m.viewport.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("faqbot chat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	youStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
