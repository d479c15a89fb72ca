package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
	"timed-quiz/internal/export"
)

const (
	focusName = iota
	focusPhone
)

// Model draws machine snapshots and forwards key presses as intents.
type Model struct {
	service  *app.QuizService
	machine  *app.Machine
	exporter export.Exporter
	dir      string
	keys     KeyMap

	updates <-chan domain.Snapshot
	cancel  func()
	snap    domain.Snapshot

	name   textinput.Model
	phone  textinput.Model
	focus  int
	cursor int // category row or option row, depending on state
	jump   string
	status string
	width  int
	height int
}

// NewModel builds a model for an already opened machine. Exports are
// written to dir with exp.
func NewModel(service *app.QuizService, machine *app.Machine, exp export.Exporter, dir string) Model {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 80
	name.Width = 40
	name.Focus()

	phone := textinput.New()
	phone.Placeholder = "Enter 10-digit phone number"
	phone.CharLimit = app.PhoneLength
	phone.Width = 40

	updates, cancel := machine.Subscribe()
	return Model{
		service:  service,
		machine:  machine,
		exporter: exp,
		dir:      dir,
		keys:     DefaultKeyMap,
		updates:  updates,
		cancel:   cancel,
		snap:     machine.Snapshot(),
		name:     name,
		phone:    phone,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

func waitForSnapshot(ch <-chan domain.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{snap: snap, ok: ok}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case snapshotMsg:
		if !msg.ok {
			return m, tea.Quit
		}
		m.applySnapshot(msg.snap)
		return m, waitForSnapshot(m.updates)

	case exportDoneMsg:
		if msg.err != nil {
			m.status = ErrorStyle.Render("Export failed: " + msg.err.Error())
		} else {
			m.status = SuccessStyle.Render("Report saved to " + msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}
		if m.jump != "" {
			switch {
			case key.Matches(msg, m.keys.JumpKeys):
				return m.jumpDigit(msg.String()), nil
			case key.Matches(msg, m.keys.Enter):
				return m.commitJump(), nil
			}
			m.jump = ""
		}
		switch m.snap.State {
		case domain.StateIntake:
			return m.updateIntake(msg)
		case domain.StateCategorySelect:
			return m.updateCategories(msg)
		case domain.StateInProgress:
			return m.updateQuiz(msg)
		case domain.StateSubmitted:
			return m.updateReview(msg)
		}
	}

	if m.snap.State == domain.StateIntake {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m *Model) applySnapshot(snap domain.Snapshot) {
	prev := m.snap
	m.snap = snap
	if prev.State != snap.State {
		m.jump = ""
	}
	if prev.State == snap.State && prev.Index == snap.Index {
		return
	}
	m.cursor = 0
	if snap.State == domain.StateInProgress && snap.Current != nil {
		for i, o := range snap.Current.Options {
			if o == snap.Current.Selected {
				m.cursor = i
			}
		}
	}
	if snap.State == domain.StateIntake && prev.State != domain.StateIntake {
		m.name.SetValue("")
		m.phone.SetValue("")
		m.focus = focusName
		m.name.Focus()
		m.phone.Blur()
		m.status = ""
	}
	if prev.State != snap.State && snap.State == domain.StateSubmitted {
		m.status = ""
	}
}

func (m Model) updateIntake(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if msg.String() == "k" || msg.String() == "j" {
			break
		}
		if m.focus == focusName {
			m.focus = focusPhone
			m.name.Blur()
			return m, m.phone.Focus()
		}
		m.focus = focusName
		m.phone.Blur()
		return m, m.name.Focus()

	case key.Matches(msg, m.keys.Enter):
		if !m.snap.CanConfirm {
			m.status = WarningStyle.Render("Fill in your name and phone number.")
			return m, nil
		}
		if err := m.machine.ConfirmIntake(); err != nil {
			m.status = ErrorStyle.Render(intakeMessage(err))
			return m, nil
		}
		m.status = ""
		return m, nil
	}
	return m.updateInputs(msg)
}

// updateInputs feeds the focused text field and mirrors it into the machine.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusName {
		m.name, cmd = m.name.Update(msg)
		if m.name.Value() != m.snap.Participant.FullName {
			_ = m.machine.SetName(m.name.Value())
		}
		return m, cmd
	}

	before := m.phone.Value()
	m.phone, cmd = m.phone.Update(msg)
	if m.phone.Value() != before {
		if err := m.machine.SetPhone(m.phone.Value()); err != nil {
			// rejected at the input boundary: keep the last accepted value
			m.phone.SetValue(before)
		}
	}
	return m, cmd
}

func intakeMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPhone):
		return "Phone number must be exactly 10 digits."
	case errors.Is(err, domain.ErrInvalidName):
		return "Please enter your full name."
	default:
		return err.Error()
	}
}

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Categories)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.snap.Categories) {
			_ = m.machine.ToggleCategory(m.snap.Categories[m.cursor].Name)
		}
	case key.Matches(msg, m.keys.Enter):
		if err := m.machine.Start(); err != nil {
			m.status = WarningStyle.Render("Select at least one category.")
			return m, nil
		}
		m.status = ""
	}
	return m, nil
}

func (m Model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.snap.Current
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if cur != nil && m.cursor < len(cur.Options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Toggle):
		if cur != nil && m.cursor < len(cur.Options) {
			_ = m.machine.SelectAnswer(cur.ID, cur.Options[m.cursor])
		}
	case key.Matches(msg, m.keys.Prev):
		_ = m.machine.Prev()
	case key.Matches(msg, m.keys.Next):
		// the last question trades Next for Submit
		if m.snap.HasNext {
			_ = m.machine.Next()
		} else {
			_ = m.machine.Submit()
		}
	case key.Matches(msg, m.keys.Submit):
		_ = m.machine.Submit()
	case key.Matches(msg, m.keys.JumpKeys):
		return m.jumpDigit(msg.String()), nil
	}
	return m, nil
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Prev), key.Matches(msg, m.keys.Up):
		_ = m.machine.Prev()
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Down):
		_ = m.machine.Next()
	case key.Matches(msg, m.keys.JumpKeys):
		return m.jumpDigit(msg.String()), nil
	case key.Matches(msg, m.keys.Retry):
		_ = m.machine.Retry()
	case key.Matches(msg, m.keys.Export):
		m.status = DimStyle.Render("Exporting...")
		return m, m.exportCmd()
	}
	return m, nil
}

// jumpDigit appends d to the pending question number. The jump fires as
// soon as another digit could not name a question; otherwise enter
// commits it.
func (m Model) jumpDigit(d string) Model {
	if m.jump == "" && d == "0" {
		return m
	}
	m.jump += d
	n, err := strconv.Atoi(m.jump)
	if err != nil || n*10 > m.snap.Total {
		return m.commitJump()
	}
	return m
}

func (m Model) commitJump() Model {
	n, err := strconv.Atoi(m.jump)
	m.jump = ""
	if err != nil {
		return m
	}
	if err := m.machine.Jump(n - 1); err != nil {
		m.status = WarningStyle.Render(fmt.Sprintf("No question %d.", n))
		return m
	}
	m.status = ""
	return m
}

func (m Model) exportCmd() tea.Cmd {
	service, machine, exp, dir := m.service, m.machine, m.exporter, m.dir
	return func() tea.Msg {
		report, err := service.Finish(context.Background(), machine)
		if err != nil {
			return exportDoneMsg{err: fmt.Errorf("finish session: %w", err)}
		}
		path, err := export.WriteFile(dir, export.DefaultBaseName, exp, report)
		return exportDoneMsg{path: path, err: err}
	}
}
