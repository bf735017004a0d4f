package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Asker answers one chat question and reports which sources grounded the
// answer. Implementations persist session state per turn.
type Asker interface {
	Ask(question string) (answer string, sources []string, err error)
}

type answerMsg struct {
	question string
	answer   string
	sources  []string
	err      error
}

// Model is the Bubble Tea model for the interactive chat session.
type Model struct {
	asker    Asker
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	status   string
	scope    string
	busy     bool
	ready    bool
}

// New creates a chat model. The scope label is shown in the header so the
// user always knows which documents answers are drawn from.
func New(asker Asker, scope string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter (ctrl+c to quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		asker:    asker,
		input:    ti,
		viewport: vp,
		scope:    scope,
		status:   "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 1
		totalFooterLines := 1
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.viewport.SetContent(m.transcript())
		m.viewport.GotoBottom()
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.lines = append(m.lines, errorStyle.Render("error: "+msg.err.Error()), "")
			m.status = "Error. Ask again or ctrl+c to quit."
		} else {
			m.lines = append(m.lines, msg.answer)
			if len(msg.sources) > 0 {
				m.lines = append(m.lines, sourceStyle.Render("sources: "+strings.Join(msg.sources, ", ")))
			}
			m.lines = append(m.lines, "")
			m.status = "Ready."
		}
		m.viewport.SetContent(m.transcript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.input.Reset()
				m.lines = append(m.lines, questionStyle.Render("you: ")+q)
				m.status = "Thinking..."
				m.viewport.SetContent(m.transcript())
				m.viewport.GotoBottom()
				return m, m.ask(q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the question off the update loop so the UI stays responsive
// while the model generates.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, sources, err := m.asker.Ask(question)
		return answerMsg{question: question, answer: answer, sources: sources, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("doclens chat") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("  ["+m.scope+"]")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) transcript() string {
	if len(m.lines) == 0 {
		return "Ask anything about the loaded documents."
	}
	return strings.Join(m.lines, "\n")
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
