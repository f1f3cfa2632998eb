package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	earningsdto "moneywatch/internal/modules/earnings/dto"
	ledgerdto "moneywatch/internal/modules/ledger/dto"
	sessiondto "moneywatch/internal/modules/session/dto"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/money"
	"moneywatch/internal/ui/components"
	"moneywatch/internal/ui/theme"
	bankview "moneywatch/internal/ui/views/bank"
	historyview "moneywatch/internal/ui/views/history"
	settingsview "moneywatch/internal/ui/views/settings"
	watchview "moneywatch/internal/ui/views/watch"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Start(ctx context.Context, title string) (sessiondto.StartOutput, error)
	Stop(ctx context.Context) (sessiondto.StopOutput, error)
	GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error)
	Close() error
}

type ledgerPort interface {
	QuickAdd(ctx context.Context, title, category, platform string) (ledgerdto.RecordOutput, error)
	List(ctx context.Context) ([]ledgerdto.RecordOutput, error)
}

type earningsPort interface {
	Snapshot(ctx context.Context) (earningsdto.TotalsOutput, error)
	Bank(ctx context.Context) (earningsdto.BankOutput, error)
	ConnectBank(ctx context.Context, bank, agency, account string) (earningsdto.ActionOutput, error)
	Withdraw(ctx context.Context) (earningsdto.ActionOutput, error)
	Breakdown(ctx context.Context) ([]earningsdto.CategoryShareOutput, error)
	Settings(ctx context.Context) (earningsdto.SettingsOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabWatch tabID = iota
	tabHistory
	tabBank
	tabSettings
	tabCount
)

var tabLabels = [tabCount]string{
	"Watch", "History", "Bank", "Settings",
}

// ─── async messages ───────────────────────────────────────────────────────────

type refreshTickMsg struct{}

type totalsLoadedMsg struct {
	totals earningsdto.TotalsOutput
	err    error
}

// activeLoadedMsg carries the epoch its load was issued under; a start or a
// stop in between makes it stale.
type activeLoadedMsg struct {
	epoch  uint64
	active sessiondto.ActiveSessionOutput
	err    error
}

type sessionStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

type sessionStoppedMsg struct {
	out sessiondto.StopOutput
	err error
}

type quickAddedMsg struct {
	record ledgerdto.RecordOutput
	err    error
}

type bankActionMsg struct {
	out earningsdto.ActionOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Session  key.Binding
	Title    key.Binding
	QuickAdd key.Binding
	Withdraw key.Binding
	Connect  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Session:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop session")),
		Title:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		QuickAdd: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "quick add")),
		Withdraw: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "withdraw")),
		Connect:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect bank")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Session, k.Title, k.QuickAdd},
		{k.Withdraw, k.Connect},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the stats header,
// the session mirror, the help overlay and the command palette. Business
// logic lives behind the ports; rendering is delegated to sub-views.
type Model struct {
	currency string

	session  sessionPort
	ledger   ledgerPort
	earnings earningsPort

	watchView    watchview.Model
	historyView  historyview.Model
	bankView     bankview.Model
	settingsView settingsview.Model

	activeTab     tabID
	keys          keyMap
	help          help.Model
	showHelp      bool
	palette       components.Palette
	totals        earningsdto.TotalsOutput
	activeSession sessiondto.ActiveSessionOutput
	hasActive     bool
	activeEpoch   uint64
	ticking       bool
	status        string
	width         int
	height        int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(currency string, session sessionPort, ledger ledgerPort, earnings earningsPort) Model {
	return Model{
		currency:     currency,
		session:      session,
		ledger:       ledger,
		earnings:     earnings,
		watchView:    watchview.New(currency),
		historyView:  historyview.New(ledger, currency),
		bankView:     bankview.New(earnings, currency),
		settingsView: settingsview.New(earnings),
		activeTab:    tabWatch,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.historyView.Init(),
		m.bankView.Init(),
		m.settingsView.Init(),
		m.loadTotalsCmd(),
		m.loadActiveCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case refreshTickMsg:
		m.ticking = false
		if !m.hasActive {
			return m, nil
		}
		return m, tea.Batch(m.loadActiveCmd(), m.loadTotalsCmd())

	case totalsLoadedMsg:
		if msg.err != nil {
			m.status = "totals: " + msg.err.Error()
		} else {
			m.totals = msg.totals
		}
		return m, nil

	case activeLoadedMsg:
		if msg.epoch != m.activeEpoch {
			return m, nil
		}
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveSession) {
				m.status = "active session check: " + msg.err.Error()
			}
			m.hasActive = false
			m.watchView.SetActive(sessiondto.ActiveSessionOutput{}, false)
			return m, nil
		}
		m.hasActive = true
		m.activeSession = msg.active
		m.watchView.SetActive(msg.active, true)
		cmd := m.scheduleRefresh()
		return m, cmd

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			return m, nil
		}
		m.activeEpoch++
		m.status = "watching: " + msg.out.Title
		return m, m.loadActiveCmd()

	case sessionStoppedMsg:
		if msg.err != nil {
			m.status = "stop failed: " + msg.err.Error()
			return m, nil
		}
		m.activeEpoch++
		m.hasActive = false
		m.activeSession = sessiondto.ActiveSessionOutput{}
		m.watchView.SessionStopped()
		m.status = fmt.Sprintf("recorded %s: %d min, +%s", msg.out.Title, msg.out.DurationMin, money.Cents(msg.out.EarningsCts).Format(m.currency))
		return m, tea.Batch(m.loadTotalsCmd(), m.historyView.Reload())

	case quickAddedMsg:
		if msg.err != nil {
			m.status = "quick add failed: " + msg.err.Error()
			return m, nil
		}
		m.watchView.QuickAddDone()
		m.status = fmt.Sprintf("added %s: %d min, +%s %s", msg.record.Title, msg.record.DurationMin, m.currency, msg.record.Earnings)
		return m, tea.Batch(m.loadTotalsCmd(), m.historyView.Reload())

	case bankActionMsg:
		if msg.err != nil {
			m.status = "bank: " + msg.err.Error()
		} else {
			m.status = msg.out.Message
		}
		return m, m.bankView.Reload()

	case watchview.StartRequestMsg:
		return m, m.startSessionCmd(msg.Title)
	case watchview.StopRequestMsg:
		return m, m.stopSessionCmd()
	case watchview.QuickAddRequestMsg:
		return m, m.quickAddCmd(msg.Title, msg.Category, msg.Platform)
	case bankview.WithdrawRequestMsg:
		return m, m.withdrawCmd()
	case bankview.ConnectRequestMsg:
		return m, m.connectCmd(msg.Bank, msg.Agency, msg.Account)

	// Loaded messages go to their view even when another tab is showing.
	case historyview.RecordsLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	case bankview.LoadedMsg:
		m.bankView, _ = m.bankView.Update(msg)
		return m, nil
	case settingsview.LoadedMsg:
		m.settingsView, _ = m.settingsView.Update(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while it is taking text input.
		if m.subViewEditing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			_ = m.session.Close()
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabWatch:
		m.watchView, tabCmd = m.watchView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabBank:
		m.bankView, tabCmd = m.bankView.Update(msg)
	case tabSettings:
		m.settingsView, tabCmd = m.settingsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabWatch:
		return m.watchView.View()
	case tabHistory:
		return m.historyView.View()
	case tabBank:
		return m.bankView.View()
	case tabSettings:
		return m.settingsView.View()
	}
	return ""
}

func (m Model) renderHeader() string {
	bank := theme.Muted.Render("not connected")
	if m.totals.HasBank {
		bank = theme.Money.Render(money.Cents(m.totals.BankBalanceCts).Format(m.currency))
	}
	cards := []string{
		m.card("Total earned", theme.Money.Render(money.Cents(m.totals.AllTimeCts).Format(m.currency))),
		m.card("Today", theme.Money.Render(money.Cents(m.totals.TodayCts).Format(m.currency))),
		m.card("Watched today", theme.Hot.Render(fmt.Sprintf("%d", m.totals.WatchedToday))),
		m.card("Bank balance", bank),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) card(label, value string) string {
	w := m.width/4 - 2
	if w < 16 {
		w = 16
	}
	return theme.Card.Width(w).Render(theme.Muted.Render(label) + "\n" + value)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "moneywatch  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasActive {
		left = theme.Live.Render("● "+m.activeSession.Title+" "+m.activeSession.Elapsed) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "watch:start":
		title := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if title == "" {
			m.status = "usage: watch:start <title>"
			return m, nil
		}
		m.activeTab = tabWatch
		return m, m.startSessionCmd(title)

	case "watch:stop":
		return m, m.stopSessionCmd()

	case "add":
		if len(parts) < 3 {
			m.status = "usage: add <category> <title...>"
			return m, nil
		}
		title := strings.Join(parts[2:], " ")
		return m, m.quickAddCmd(title, parts[1], "")

	case "bank:withdraw":
		m.activeTab = tabBank
		return m, m.withdrawCmd()

	case "bank:connect":
		if len(parts) < 4 {
			m.status = "usage: bank:connect <bank> <agency> <account>"
			return m, nil
		}
		m.activeTab = tabBank
		bank := strings.Join(parts[1:len(parts)-2], " ")
		return m, m.connectCmd(bank, parts[len(parts)-2], parts[len(parts)-1])

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewEditing reports whether the active tab is taking text input, in
// which case global key bindings must yield to allow free typing.
func (m Model) subViewEditing() bool {
	switch m.activeTab {
	case tabWatch:
		return m.watchView.Editing()
	case tabHistory:
		return m.historyView.Filtering()
	case tabBank:
		return m.bankView.Editing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 8}
	m.watchView, _ = m.watchView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.bankView, _ = m.bankView.Update(sz)
	m.settingsView, _ = m.settingsView.Update(sz)
}

// scheduleRefresh arms one refresh a second from now. Only one is in flight
// at a time.
func (m *Model) scheduleRefresh() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadTotalsCmd() tea.Cmd {
	return func() tea.Msg {
		totals, err := m.earnings.Snapshot(context.Background())
		return totalsLoadedMsg{totals: totals, err: err}
	}
}

func (m Model) loadActiveCmd() tea.Cmd {
	epoch := m.activeEpoch
	return func() tea.Msg {
		active, err := m.session.GetActive(context.Background())
		return activeLoadedMsg{epoch: epoch, active: active, err: err}
	}
}

func (m Model) startSessionCmd(title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), title)
		return sessionStartedMsg{out: out, err: err}
	}
}

func (m Model) stopSessionCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Stop(context.Background())
		return sessionStoppedMsg{out: out, err: err}
	}
}

func (m Model) quickAddCmd(title, category, platform string) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.ledger.QuickAdd(context.Background(), title, category, platform)
		return quickAddedMsg{record: rec, err: err}
	}
}

func (m Model) withdrawCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.earnings.Withdraw(context.Background())
		return bankActionMsg{out: out, err: err}
	}
}

func (m Model) connectCmd(bank, agency, account string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.earnings.ConnectBank(context.Background(), bank, agency, account)
		return bankActionMsg{out: out, err: err}
	}
}
