package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ledgerdto "moneywatch/internal/modules/ledger/dto"
	"moneywatch/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type LedgerPort interface {
	List(ctx context.Context) ([]ledgerdto.RecordOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type RecordsLoadedMsg struct {
	Records []ledgerdto.RecordOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type recordItem struct {
	record   ledgerdto.RecordOutput
	currency string
}

func (i recordItem) Title() string { return i.record.Title }
func (i recordItem) Description() string {
	return fmt.Sprintf("%s · %s · %d min · %s %s",
		i.record.CategoryLabel, i.record.Platform, i.record.DurationMin, i.currency, i.record.Earnings)
}
func (i recordItem) FilterValue() string { return i.record.Title + " " + i.record.Platform }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     LedgerPort
	currency string
	list     list.Model
	detail   viewport.Model
	spinner  spinner.Model
	loading  bool
	count    int
	width    int
	height   int
}

func New(port LedgerPort, currency string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Green).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("record", "records")

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		currency: currency,
		list:     l,
		detail:   vp,
		spinner:  sp,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case RecordsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		m.count = len(msg.Records)
		items := make([]list.Item, len(msg.Records))
		for i, r := range msg.Records {
			items[i] = recordItem{record: r, currency: m.currency}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading history…")
	}
	if m.count == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Nothing watched yet. Start a session on the Watch tab."))
	}

	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Reload fetches the ledger again, newest first.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return RecordsLoadedMsg{}
		}
		records, err := m.port.List(context.Background())
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return theme.Muted.Render("Select a record to see details")
	}
	r := item.record
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(r.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("earned:   ") + theme.Money.Render(m.currency+" "+r.Earnings) + "\n")
	sb.WriteString(theme.Muted.Render("category: ") + r.CategoryLabel + "\n")
	sb.WriteString(theme.Muted.Render("platform: ") + r.Platform + "\n")
	sb.WriteString(fmt.Sprintf("%s%d min\n", theme.Muted.Render("duration: "), r.DurationMin))
	sb.WriteString(theme.Muted.Render("when:     ") + r.CreatedAt.Local().Format("02 Jan 15:04") + "\n")
	sb.WriteString(theme.Muted.Render("origin:   ") + r.Origin + "\n")
	sb.WriteString(fmt.Sprintf("%s#%d\n", theme.Muted.Render("seq:      "), r.Seq))
	return sb.String()
}
