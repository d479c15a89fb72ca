package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"timed-quiz/internal/domain"
)

func (m Model) View() string {
	var body string
	switch m.snap.State {
	case domain.StateIntake:
		body = m.intakeView()
	case domain.StateCategorySelect:
		body = m.categoryView()
	case domain.StateInProgress:
		body = m.quizView()
	case domain.StateSubmitted:
		body = m.reviewView()
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Timed Quiz"))
	b.WriteString("\n\n")
	b.WriteString(BoxStyle.Render(body))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.jump != "" {
		b.WriteString(SelectedStyle.Render("Go to: " + m.jump + "_"))
		b.WriteString("\n")
	}
	b.WriteString(DimStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) intakeView() string {
	var b strings.Builder
	b.WriteString("Participant details\n\n")
	b.WriteString(label("Full name", m.focus == focusName))
	b.WriteString(m.name.View())
	b.WriteString("\n")
	b.WriteString(label("Phone", m.focus == focusPhone))
	b.WriteString(m.phone.View())
	b.WriteString("\n\n")
	if m.snap.CanConfirm {
		b.WriteString(SelectedStyle.Render("[ Confirm ]"))
	} else {
		b.WriteString(DimStyle.Render("[ Confirm ]"))
	}
	return b.String()
}

func label(text string, focused bool) string {
	text = fmt.Sprintf("%-10s ", text)
	if focused {
		return SelectedStyle.Render(text)
	}
	return text
}

func (m Model) categoryView() string {
	var b strings.Builder
	b.WriteString(m.participantLine())
	b.WriteString("\n\nSelect categories\n\n")
	for i, c := range m.snap.Categories {
		mark := "[ ]"
		if c.Enabled {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, c.Name)
		if i == m.cursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.snap.CanStart {
		b.WriteString(SelectedStyle.Render("[ Start Quiz ]"))
	} else {
		b.WriteString(DimStyle.Render("[ Start Quiz ]"))
	}
	return b.String()
}

func (m Model) quizView() string {
	var b strings.Builder
	b.WriteString(m.participantLine())
	b.WriteString("   ")
	b.WriteString(TimerStyle.Render("Time Left: " + m.snap.RemainingText))
	b.WriteString("\n\n")

	if m.snap.NoQuestions {
		b.WriteString(WarningStyle.Render("No questions available in the selected categories."))
		b.WriteString("\n\n")
		b.WriteString(SelectedStyle.Render("[ Submit ]"))
		return b.String()
	}

	cur := m.snap.Current
	b.WriteString(fmt.Sprintf("Question %d/%d [%s]\n", m.snap.Index+1, m.snap.Total, cur.Category))
	b.WriteString(cur.Text)
	b.WriteString("\n\n")
	for i, o := range cur.Options {
		mark := "( )"
		if o == cur.Selected {
			mark = "(*)"
		}
		line := fmt.Sprintf("%s %s", mark, o)
		if i == m.cursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.paletteView())
	b.WriteString("\n\n")
	b.WriteString(m.navButtons("Submit"))
	return b.String()
}

func (m Model) reviewView() string {
	var b strings.Builder
	b.WriteString(m.participantLine())
	b.WriteString("\n\n")
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("Quiz Results : %d / %d", m.snap.Score, m.snap.Total)))
	b.WriteString("\n\n")

	if m.snap.Index < len(m.snap.Review) {
		item := m.snap.Review[m.snap.Index]
		b.WriteString(fmt.Sprintf("Question %d/%d [%s]\n", item.Number, m.snap.Total, item.Category))
		b.WriteString(item.Question)
		b.WriteString("\n\n")
		b.WriteString("Your answer: " + item.Answer + "  ")
		if item.Passed {
			b.WriteString(SuccessStyle.Render("PASS"))
		} else {
			b.WriteString(ErrorStyle.Render("FAIL"))
			b.WriteString("\nCorrect answer: " + item.Correct)
		}
		b.WriteString("\n\n")
		b.WriteString(m.paletteView())
		b.WriteString("\n\n")
	}
	b.WriteString(m.navButtons(""))
	b.WriteString("  [ Retry ]  [ Export ]")
	return b.String()
}

func (m Model) participantLine() string {
	p := m.snap.Participant
	return fmt.Sprintf("Name: %s   Phone: %s", p.FullName, p.PhoneNumber)
}

func (m Model) paletteView() string {
	cells := make([]string, 0, len(m.snap.Palette))
	for _, e := range m.snap.Palette {
		cells = append(cells, paletteStyles[e.Status].Render(fmt.Sprintf("%2d", e.Number)))
	}
	return strings.Join(cells, " ")
}

// navButtons renders Previous/Next. On the last question Next is replaced by
// last, when last is not empty.
func (m Model) navButtons(last string) string {
	prev := DimStyle.Render("[ Previous ]")
	if m.snap.HasPrev {
		prev = "[ Previous ]"
	}
	next := DimStyle.Render("[ Next ]")
	switch {
	case m.snap.HasNext:
		next = "[ Next ]"
	case last != "":
		next = SelectedStyle.Render("[ " + last + " ]")
	}
	return prev + "  " + next
}

func (m Model) helpLine() string {
	k := m.keys
	var bindings []string
	switch m.snap.State {
	case domain.StateIntake:
		bindings = []string{helpOf(k.Tab), helpOf(k.Enter)}
	case domain.StateCategorySelect:
		bindings = []string{helpOf(k.Up), helpOf(k.Down), helpOf(k.Toggle), "enter start"}
	case domain.StateInProgress:
		bindings = []string{helpOf(k.Up), helpOf(k.Down), "enter select", helpOf(k.Prev), helpOf(k.Next), helpOf(k.JumpKeys), helpOf(k.Submit)}
	case domain.StateSubmitted:
		bindings = []string{helpOf(k.Prev), helpOf(k.Next), helpOf(k.JumpKeys), helpOf(k.Retry), helpOf(k.Export)}
	}
	bindings = append(bindings, helpOf(k.Quit))
	return strings.Join(bindings, " • ")
}

func helpOf(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
