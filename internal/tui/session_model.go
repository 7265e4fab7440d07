// Package tui hosts the interactive practice-session page: the creation form,
// the pieces-practiced editor dialog, and the session list.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"practica/internal/client"
	"practica/internal/editor"
	"practica/internal/models"
)

type mode int

const (
	modeForm mode = iota
	modeDialog
)

const (
	inputStartDatetime = iota
	inputDuration
	inputInstrument
	numFormInputs
)

const (
	dialogInputComposer = iota
	dialogInputTitle
	numDialogInputs
)

// SessionModel drives the practice-sessions page. All state mutation happens
// in Update; a model that has quit ignores everything, so late messages for a
// torn-down view are no-ops.
type SessionModel struct {
	api  *client.Client
	form *editor.SessionForm

	mode   mode
	inputs []textinput.Model
	focus  int

	dialogInputs []textinput.Model
	dialogFocus  int
	cursor       int

	sessions []models.PracticeSessionWithPieces
	status   string
	errText  string

	width    int
	quitting bool
}

func NewSessionModel(api *client.Client) SessionModel {
	form := editor.NewSessionForm(api, editor.NewEditor(api))

	inputs := make([]textinput.Model, numFormInputs)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
	}
	inputs[inputStartDatetime].Placeholder = "Start datetime (2024-01-01T10:00)"
	inputs[inputStartDatetime].Focus()
	inputs[inputDuration].Placeholder = "Duration (mins)"
	inputs[inputInstrument].Placeholder = "Instrument"

	dialogInputs := make([]textinput.Model, numDialogInputs)
	for i := range dialogInputs {
		dialogInputs[i] = textinput.New()
		dialogInputs[i].Width = 30
	}
	dialogInputs[dialogInputComposer].Placeholder = "Composer"
	dialogInputs[dialogInputTitle].Placeholder = "Title"

	return SessionModel{
		api:          api,
		form:         form,
		inputs:       inputs,
		dialogInputs: dialogInputs,
	}
}

func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return refreshMsg{} })
}

type refreshMsg struct{}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		m.loadSessions()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

		if m.mode == modeDialog {
			return m.updateDialog(msg)
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m SessionModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "down":
		m.focus = (m.focus + 1) % numFormInputs
		m.refocusForm()
		return m, nil

	case "shift+tab", "up":
		m.focus = (m.focus + numFormInputs - 1) % numFormInputs
		m.refocusForm()
		return m, nil

	case "ctrl+p":
		m.mode = modeDialog
		m.dialogFocus = dialogInputComposer
		m.refocusDialog()
		return m, nil

	case "enter":
		m.submit()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m SessionModel) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeForm
		m.refocusForm()
		return m, nil

	case "tab":
		m.dialogFocus = (m.dialogFocus + 1) % numDialogInputs
		m.refocusDialog()
		return m, nil

	case "down":
		if m.cursor < len(m.form.Editor().Catalog())-1 {
			m.cursor++
		}
		return m, nil

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "enter":
		catalog := m.form.Editor().Catalog()
		if m.cursor >= 0 && m.cursor < len(catalog) {
			m.form.Editor().Toggle(catalog[m.cursor])
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.dialogInputs[m.dialogFocus], cmd = m.dialogInputs[m.dialogFocus].Update(msg)
	m.refreshCatalog()
	return m, cmd
}

// refreshCatalog re-runs the piece search for the current filter inputs.
// An empty filter empties the view without a request.
func (m *SessionModel) refreshCatalog() {
	m.errText = ""
	m.form.Editor().SetFilter(
		context.Background(),
		m.dialogInputs[dialogInputComposer].Value(),
		m.dialogInputs[dialogInputTitle].Value(),
		func(msg string) { m.errText = msg },
	)
	if n := len(m.form.Editor().Catalog()); m.cursor >= n {
		m.cursor = 0
	}
}

func (m *SessionModel) submit() {
	m.errText = ""
	m.status = ""

	duration := 0
	if raw := strings.TrimSpace(m.inputs[inputDuration].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			m.errText = "Invalid duration"
			return
		}
		duration = parsed
	}

	m.form.StartDatetime = strings.TrimSpace(m.inputs[inputStartDatetime].Value())
	m.form.DurationMins = duration
	m.form.Instrument = strings.TrimSpace(m.inputs[inputInstrument].Value())

	m.form.Submit(context.Background(), func(sessions []models.PracticeSessionWithPieces) {
		m.sessions = sessions
		m.status = "Practice session added"
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
	}, func(msg string) {
		m.errText = msg
	})
}

func (m *SessionModel) loadSessions() {
	m.api.GetPracticeSessions(context.Background(), func(sessions []models.PracticeSessionWithPieces) {
		m.sessions = sessions
	}, func(msg string) {
		m.errText = msg
	})
}

func (m *SessionModel) refocusForm() {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *SessionModel) refocusDialog() {
	for i := range m.dialogInputs {
		if i == m.dialogFocus {
			m.dialogInputs[i].Focus()
		} else {
			m.dialogInputs[i].Blur()
		}
	}
}

func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeDialog {
		return m.dialogView()
	}
	return m.formView()
}

func (m SessionModel) formView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Search for or add practice sessions"))
	b.WriteString("\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Pieces practiced:"))
	b.WriteString("\n")
	for _, piece := range m.form.Editor().Selection() {
		b.WriteString(fmt.Sprintf("  • %s: %s\n", piece.Composer, piece.Title))
	}

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Your practice sessions:"))
	b.WriteString("\n")
	for _, session := range m.sessions {
		b.WriteString(fmt.Sprintf("  Practiced %s for %d mins at %s\n",
			session.Instrument, session.DurationMins, session.StartDatetime))
		for _, piece := range session.PiecesPracticed {
			b.WriteString(fmt.Sprintf("    - %s: %s\n", piece.Composer, piece.Title))
		}
	}

	b.WriteString(helpStyle.Render("tab: next field • enter: add session • ctrl+p: edit pieces practiced • esc: quit"))
	return b.String()
}

func (m SessionModel) dialogView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Edit pieces practiced"))
	b.WriteString("\n")
	b.WriteString(m.dialogInputs[dialogInputComposer].View())
	b.WriteString("\n")
	b.WriteString(m.dialogInputs[dialogInputTitle].View())
	b.WriteString("\n\n")

	catalog := m.form.Editor().Catalog()
	if len(catalog) == 0 {
		b.WriteString(labelStyle.Render("Type a composer or title to search the catalog"))
		b.WriteString("\n")
	}
	for i, piece := range catalog {
		marker := "[ ]"
		line := fmt.Sprintf("%s %s: %s", marker, piece.Composer, piece.Title)
		if m.form.Editor().IsSelected(piece.PieceID) {
			line = selectedStyle.Render(fmt.Sprintf("[x] %s: %s", piece.Composer, piece.Title))
		}
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText) + "\n")
	}

	b.WriteString(helpStyle.Render("type to search • up/down: move • enter: add/remove • esc: back"))
	return dialogStyle.Render(b.String())
}
