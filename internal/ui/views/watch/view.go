package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ledgerdto "moneywatch/internal/modules/ledger/dto"
	sessiondto "moneywatch/internal/modules/session/dto"
	"moneywatch/internal/platform/money"
	"moneywatch/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────
// The view owns the form fields only. Intents are handed to the app model,
// which owns the session.

type StartRequestMsg struct{ Title string }

type StopRequestMsg struct{}

type QuickAddRequestMsg struct {
	Title    string
	Category string
	Platform string
}

var categories = ledgerdto.CategoryOptions()

type field int

const (
	fieldNone field = iota - 1
	fieldTitle
	fieldQuickTitle
	fieldCategory
	fieldPlatform
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	currency   string
	title      textinput.Model
	quickTitle textinput.Model
	platform   textinput.Model
	category   int
	focus      field

	active    sessiondto.ActiveSessionOutput
	hasActive bool
	width     int
	height    int
}

func New(currency string) Model {
	title := textinput.New()
	title.Placeholder = "What are you watching?"
	title.CharLimit = 120
	title.Prompt = "▸ "

	quick := textinput.New()
	quick.Placeholder = "Title"
	quick.CharLimit = 120
	quick.Prompt = "▸ "

	platform := textinput.New()
	platform.Placeholder = "Manual"
	platform.CharLimit = 40
	platform.Prompt = "▸ "

	return Model{
		currency:   currency,
		title:      title,
		quickTitle: quick,
		platform:   platform,
		focus:      fieldNone,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.focus == fieldNone {
			return m.handleIdleKey(msg)
		}
		return m.handleEditKey(msg)
	}
	return m, nil
}

func (m Model) handleIdleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if m.hasActive {
			return m, func() tea.Msg { return StopRequestMsg{} }
		}
		if strings.TrimSpace(m.title.Value()) == "" {
			return m, m.focusField(fieldTitle)
		}
		title := m.title.Value()
		return m, func() tea.Msg { return StartRequestMsg{Title: title} }
	case "e":
		if m.hasActive {
			return m, nil
		}
		return m, m.focusField(fieldTitle)
	case "a":
		return m, m.focusField(fieldQuickTitle)
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.focusField(fieldNone)
	case "tab", "down":
		if m.focus == fieldTitle {
			return m, nil
		}
		next := m.focus + 1
		if next > fieldPlatform {
			next = fieldQuickTitle
		}
		return m, m.focusField(next)
	case "shift+tab", "up":
		if m.focus == fieldTitle {
			return m, nil
		}
		prev := m.focus - 1
		if prev < fieldQuickTitle {
			prev = fieldPlatform
		}
		return m, m.focusField(prev)
	case "enter":
		if m.focus == fieldTitle {
			if strings.TrimSpace(m.title.Value()) == "" {
				return m, nil
			}
			title := m.title.Value()
			cmd := m.focusField(fieldNone)
			return m, tea.Batch(cmd, func() tea.Msg { return StartRequestMsg{Title: title} })
		}
		if strings.TrimSpace(m.quickTitle.Value()) == "" {
			return m, nil
		}
		req := QuickAddRequestMsg{
			Title:    m.quickTitle.Value(),
			Category: categories[m.category].Value,
			Platform: m.platform.Value(),
		}
		return m, func() tea.Msg { return req }
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldQuickTitle:
		m.quickTitle, cmd = m.quickTitle.Update(msg)
	case fieldPlatform:
		m.platform, cmd = m.platform.Update(msg)
	case fieldCategory:
		switch msg.String() {
		case "left", "h":
			m.category = (m.category + len(categories) - 1) % len(categories)
		case "right", "l", " ":
			m.category = (m.category + 1) % len(categories)
		}
	}
	return m, cmd
}

func (m *Model) focusField(f field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.quickTitle.Blur()
	m.platform.Blur()
	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldQuickTitle:
		return m.quickTitle.Focus()
	case fieldPlatform:
		return m.platform.Focus()
	}
	return nil
}

// SetActive mirrors the session controller. The title field is locked while
// a session runs.
func (m *Model) SetActive(active sessiondto.ActiveSessionOutput, ok bool) {
	m.active = active
	m.hasActive = ok
	if ok {
		m.title.SetValue(active.Title)
		if m.focus == fieldTitle {
			m.focusField(fieldNone)
		}
	}
}

// SessionStopped clears the title so the next session starts fresh.
func (m *Model) SessionStopped() {
	m.hasActive = false
	m.active = sessiondto.ActiveSessionOutput{}
	m.title.SetValue("")
}

// QuickAddDone resets the quick-add form after a successful add.
func (m *Model) QuickAddDone() {
	m.quickTitle.SetValue("")
	m.platform.SetValue("")
	m.category = 0
	m.focusField(fieldNone)
}

// Editing reports whether a text field has focus, in which case global keys
// must yield.
func (m Model) Editing() bool {
	return m.focus != fieldNone
}

func (m Model) View() string {
	sessionPane := m.renderSession()
	quickPane := m.renderQuickAdd()
	halfW := m.width/2 - 2
	if halfW < 30 {
		return lipgloss.JoinVertical(lipgloss.Left, sessionPane, quickPane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.pane(fieldTitle).Width(halfW).Render(sessionPane),
		m.pane(fieldQuickTitle).Width(halfW).Render(quickPane),
	)
}

func (m Model) pane(group field) lipgloss.Style {
	if (group == fieldTitle && m.focus == fieldTitle) || (group != fieldTitle && m.focus >= fieldQuickTitle) {
		return theme.PaneActive
	}
	return theme.Pane
}

func (m Model) renderSession() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Watch session") + "\n\n")
	if m.hasActive {
		sb.WriteString(theme.Live.Render("● WATCHING") + "  " + m.active.Title + "\n\n")
		sb.WriteString(theme.Hot.Render(m.active.Elapsed) + "   ")
		sb.WriteString(theme.Money.Render(fmt.Sprintf("+%s %s", m.currency, money.Cents(m.active.EarningsCts).String())) + "\n\n")
		sb.WriteString(theme.Muted.Render("s: stop and record"))
		return sb.String()
	}
	sb.WriteString(m.title.View() + "\n\n")
	sb.WriteString(theme.Muted.Render("0:00") + "\n\n")
	sb.WriteString(theme.Muted.Render("e: edit title  s: start"))
	return sb.String()
}

func (m Model) renderQuickAdd() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Quick add") + "\n\n")
	sb.WriteString(m.quickTitle.View() + "\n")

	labels := make([]string, len(categories))
	for i, c := range categories {
		if i == m.category {
			labels[i] = theme.Hot.Render("[" + c.Label + "]")
		} else {
			labels[i] = theme.Muted.Render(" " + c.Label + " ")
		}
	}
	cursor := "  "
	if m.focus == fieldCategory {
		cursor = "▸ "
	}
	sb.WriteString(cursor + strings.Join(labels, " ") + "\n")
	sb.WriteString(m.platform.View() + "\n\n")
	if m.focus >= fieldQuickTitle {
		sb.WriteString(theme.Muted.Render("tab: next field  ←/→: category  enter: add  esc: done"))
	} else {
		sb.WriteString(theme.Muted.Render("a: log something you already watched"))
	}
	return sb.String()
}
