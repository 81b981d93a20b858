package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	interview "github.com/koscakluka/ema-interview/core"
	"github.com/koscakluka/ema-interview/core/outcome"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	callerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bb9af7"))
	agentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7dcfff"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	outcomeStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type (
	startedMsg    struct{ err error }
	stateMsg      struct{ state interview.State }
	transcriptMsg struct{ lines []interview.TranscriptLine }
	outcomeMsg    struct{ outcome outcome.CallOutcome }
	errMsg        struct{ err error }
)

// callModel drives a single session from the terminal.
type callModel struct {
	ctx       context.Context
	session   *interview.Session
	candidate interview.Candidate
	program   *tea.Program

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int

	state      interview.State
	muted      bool
	transcript []interview.TranscriptLine
	outcome    *outcome.CallOutcome
	err        error
}

func newCallModel(ctx context.Context, session *interview.Session, candidate interview.Candidate) *callModel {
	return &callModel{
		ctx:       ctx,
		session:   session,
		candidate: candidate,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyle)),
		state:     interview.StateConnecting,
	}
}

// startSession starts the session and forwards its callbacks into the
// running program.
func (m *callModel) startSession() tea.Msg {
	p := m.program
	err := m.session.Start(m.ctx,
		interview.WithStateCallback(func(state interview.State) { p.Send(stateMsg{state: state}) }),
		interview.WithTranscriptCallback(func(lines []interview.TranscriptLine) { p.Send(transcriptMsg{lines: lines}) }),
		interview.WithOutcomeCallback(func(result outcome.CallOutcome) { p.Send(outcomeMsg{outcome: result}) }),
		interview.WithErrorCallback(func(err error) { p.Send(errMsg{err: err}) }),
	)
	return startedMsg{err: err}
}

// Session commands that change state notify the program, so they must run
// outside Update.
func (m *callModel) endCall() tea.Msg {
	if err := m.session.EndManually(); err != nil {
		return errMsg{err: err}
	}
	return nil
}

func (m *callModel) closeSession() tea.Msg {
	m.session.Close()
	return nil
}

func (m *callModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSession)
}

func (m *callModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-10, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = msg.Width, height
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "m":
			if err := m.session.SetMuted(!m.muted); err == nil {
				m.muted = !m.muted
			}
		case "e":
			if !m.state.IsTerminal() {
				return m, m.endCall
			}
		case "q", "ctrl+c":
			return m, tea.Sequence(m.closeSession, tea.Quit)
		}
		return m, nil

	case startedMsg:
		if msg.err != nil && m.err == nil {
			m.err = msg.err
		}
		return m, nil

	case stateMsg:
		m.state = msg.state
		return m, nil

	case transcriptMsg:
		m.transcript = append(m.transcript, msg.lines...)
		m.refreshTranscript()
		return m, nil

	case outcomeMsg:
		result := msg.outcome
		m.outcome = &result
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *callModel) refreshTranscript() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, line := range m.transcript {
		speaker := agentStyle.Render("Agent")
		if line.Speaker == interview.SpeakerCaller {
			speaker = callerStyle.Render("You")
		}
		b.WriteString(wordwrap.String(fmt.Sprintf("%s: %s", speaker, line.Text), max(m.width-2, 20)))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *callModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Interview: %s (%s)", m.candidate.Name, m.candidate.RoleTitle)))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	if m.outcome != nil {
		b.WriteString(outcomeStyle.Render(fmt.Sprintf("Verdict: %s   Score: %d\n%s",
			m.outcome.Verdict, m.outcome.Score,
			wordwrap.String(m.outcome.AssessmentText, max(m.width-6, 20)))))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("m mute/unmute • e end call • q quit"))
	return b.String()
}

func (m *callModel) statusLine() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	switch m.state {
	case interview.StateConnecting:
		return m.spinner.View() + " Connecting..."
	case interview.StateActive:
		if m.muted {
			return mutedStyle.Render("● Live (muted)")
		}
		return statusStyle.Render("● Live")
	case interview.StateFinished:
		return statusStyle.Render("Call finished")
	}
	return string(m.state)
}

// runCall interviews candidate in the terminal and returns the outcome, if
// the agent produced one.
func runCall(ctx context.Context, a *app, candidate interview.Candidate) (*outcome.CallOutcome, error) {
	devices, closeDevices, err := a.openDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to open audio devices: %w", err)
	}
	defer closeDevices()

	opts, err := a.sessionOptions(candidate, devices)
	if err != nil {
		return nil, err
	}
	session := interview.NewSession(opts...)
	defer session.Close()

	model := newCallModel(ctx, session, candidate)
	model.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := model.program.Run(); err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("interview ui failed: %w", err)
	}
	session.Close()

	if result, ok := session.Outcome(); ok {
		return &result, nil
	}
	if err := session.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}
