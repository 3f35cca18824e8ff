package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "prapp/internal/modules/session/dto"
	sessionin "prapp/internal/modules/session/port/in"
	"prapp/internal/ui/theme"
)

// Port opens session runs.
type Port interface {
	Open(ctx context.Context, input sessiondto.OpenInput) (sessionin.Controller, error)
}

// OpenedMsg is delivered once Open returns.
type OpenedMsg struct {
	Ctrl sessionin.Controller
	Err  error
}

// StateMsg carries a lifecycle update. Closed is set once the run emits no
// further updates.
type StateMsg struct {
	Ctrl   sessionin.Controller
	State  sessiondto.StateOutput
	Closed bool
}

type CompletedMsg struct {
	Out sessiondto.CompleteOutput
	Err error
}

type ExitedMsg struct {
	Out sessiondto.ExitOutput
	Err error
}

// NavigateMsg asks the app to leave the session screen. Completed is set when
// the user leaves from the completion summary.
type NavigateMsg struct {
	Target    string
	Completed bool
}

// Model is the practice session screen: a spinner while the session warms up,
// then the greeting and a reply box until the user ends or leaves it. A
// completed run stays on screen as a summary until the user moves on.
type Model struct {
	port       Port
	pending    string
	ctrl       sessionin.Controller
	state      sessiondto.StateOutput
	completed  *sessiondto.CompleteOutput
	spinner    spinner.Model
	input      textinput.Model
	transcript []string
	status     string
	width      int
	height     int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	ti := textinput.New()
	ti.Placeholder = "type your answer…"
	ti.CharLimit = 1024

	return Model{port: port, spinner: sp, input: ti}
}

// Start tears down any mounted run and opens a new one for sessionID.
func (m *Model) Start(sessionID string) tea.Cmd {
	m.Leave()
	m.pending = sessionID
	m.state = sessiondto.StateOutput{SessionID: sessionID, State: "initializing"}
	m.transcript = nil
	m.status = ""
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctrl, err := port.Open(context.Background(), sessiondto.OpenInput{SessionID: sessionID})
		return OpenedMsg{Ctrl: ctrl, Err: err}
	})
}

// Leave unmounts the current run. Updates that arrive afterwards are dropped.
func (m *Model) Leave() {
	if m.ctrl != nil {
		m.ctrl.Teardown()
		m.ctrl = nil
	}
	m.pending = ""
	m.completed = nil
	m.input.Blur()
}

// Mounted reports whether a run is on screen.
func (m Model) Mounted() bool { return m.ctrl != nil }

// Typing reports whether the reply box holds focus.
func (m Model) Typing() bool { return m.input.Focused() }

// Completed reports whether the completion summary is on screen.
func (m Model) Completed() bool { return m.completed != nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.width-6, 10)

	case OpenedMsg:
		if msg.Err != nil {
			m.status = "open failed: " + msg.Err.Error()
			return m, nil
		}
		if m.pending == "" || msg.Ctrl.State().SessionID != m.pending {
			msg.Ctrl.Teardown()
			return m, nil
		}
		m.pending = ""
		m.ctrl = msg.Ctrl
		m.state = msg.Ctrl.State()
		return m, waitForState(msg.Ctrl)

	case StateMsg:
		if msg.Ctrl != m.ctrl || m.ctrl == nil {
			return m, nil
		}
		if msg.Closed {
			return m, nil
		}
		m.state = msg.State
		if m.state.AcceptsInput {
			return m, tea.Batch(m.input.Focus(), waitForState(m.ctrl))
		}
		return m, waitForState(m.ctrl)

	case CompletedMsg:
		if msg.Err != nil {
			m.status = "could not end session: " + msg.Err.Error()
			return m, nil
		}
		m.Leave()
		out := msg.Out
		m.completed = &out
		return m, nil

	case ExitedMsg:
		m.Leave()
		if msg.Err != nil {
			m.status = "exit: " + msg.Err.Error()
		}
		return m, navigate(msg.Out.Target)

	case spinner.TickMsg:
		if m.pending != "" || (m.ctrl != nil && !m.state.AcceptsInput) {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.completed != nil {
		switch msg.String() {
		case "enter":
			return m, navigateCompleted(m.completed.Target)
		case "esc":
			return m, navigateCompleted(sessiondto.TargetBack)
		}
		return m, nil
	}
	if m.ctrl == nil {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		if m.input.Focused() {
			m.input.Blur()
			return m, nil
		}
		return m, m.exitCmd()
	case "ctrl+e":
		return m, m.endKey()
	}
	if !m.input.Focused() {
		switch msg.String() {
		case "e":
			return m, m.endKey()
		case "i":
			if m.state.AcceptsInput {
				return m, m.input.Focus()
			}
		}
		return m, nil
	}
	if msg.String() == "enter" {
		if reply := strings.TrimSpace(m.input.Value()); reply != "" && m.state.AcceptsInput {
			m.transcript = append(m.transcript, reply)
		}
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// endKey completes the run only once it accepts input; the warm-up cannot be
// ended from the keyboard.
func (m Model) endKey() tea.Cmd {
	if !m.state.AcceptsInput {
		return nil
	}
	return m.completeCmd()
}

// Complete ends the mounted run.
func (m Model) Complete() tea.Cmd { return m.completeCmd() }

// Exit leaves the mounted run without completing it.
func (m Model) Exit() tea.Cmd { return m.exitCmd() }

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Session") + "  " + theme.Muted.Render(m.state.SessionID) + "\n\n")

	switch {
	case m.completed != nil:
		sb.WriteString(m.renderCompleted())
	case m.ctrl == nil && m.state.SessionID == "":
		sb.WriteString(theme.Muted.Render("No session running. Use :session:new to start one.") + "\n")
	case !m.state.AcceptsInput:
		sb.WriteString(lipgloss.Place(m.width, max(m.height-6, 1), lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Preparing your "+orDefault(m.state.PreparationType, "session")+"…"))
	default:
		sb.WriteString(theme.Pane.Width(max(m.width-4, 20)).Render(m.state.Greeting) + "\n")
		for _, reply := range m.transcript {
			sb.WriteString(theme.Hot.Render("you: ") + reply + "\n")
		}
		sb.WriteString("\n" + m.input.View() + "\n")
		sb.WriteString(theme.Muted.Render("i: reply  e/ctrl+e: end session  esc: leave") + "\n")
	}
	if m.status != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.status) + "\n")
	}
	return sb.String()
}

func (m Model) renderCompleted() string {
	out := m.completed
	var sb strings.Builder
	sb.WriteString(theme.Good.Render("Session completed!") + "\n\n")
	if out.Session.Score != nil {
		sb.WriteString(fmt.Sprintf("Score: %d\n", *out.Session.Score))
	}
	if len(out.Improvements) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Improvements") + "\n")
		for _, item := range out.Improvements {
			sb.WriteString("  • " + item + "\n")
		}
	}
	if !out.Durable {
		sb.WriteString("\n" + theme.Hot.Render("Results were not saved.") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: view results & profile  esc: back") + "\n")
	return sb.String()
}

func (m Model) completeCmd() tea.Cmd {
	ctrl := m.ctrl
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := ctrl.Complete(context.Background())
		return CompletedMsg{Out: out, Err: err}
	}
}

func (m Model) exitCmd() tea.Cmd {
	ctrl := m.ctrl
	if ctrl == nil {
		return navigate(sessiondto.TargetBack)
	}
	return func() tea.Msg {
		out, err := ctrl.Exit(context.Background())
		return ExitedMsg{Out: out, Err: err}
	}
}

func waitForState(ctrl sessionin.Controller) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ctrl.Updates()
		return StateMsg{Ctrl: ctrl, State: state, Closed: !ok}
	}
}

func navigate(target string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Target: target} }
}

func navigateCompleted(target string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Target: target, Completed: true} }
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
