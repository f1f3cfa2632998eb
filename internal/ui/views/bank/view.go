package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	earningsdto "moneywatch/internal/modules/earnings/dto"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/money"
	"moneywatch/internal/ui/theme"
)

type BankPort interface {
	Bank(ctx context.Context) (earningsdto.BankOutput, error)
	Breakdown(ctx context.Context) ([]earningsdto.CategoryShareOutput, error)
}

type LoadedMsg struct {
	Bank      earningsdto.BankOutput
	HasBank   bool
	Breakdown []earningsdto.CategoryShareOutput
	Err       error
}

type WithdrawRequestMsg struct{}

type ConnectRequestMsg struct {
	Bank    string
	Agency  string
	Account string
}

type Model struct {
	port      BankPort
	currency  string
	bank      earningsdto.BankOutput
	hasBank   bool
	breakdown []earningsdto.CategoryShareOutput
	err       error
	bar       progress.Model

	form    []textinput.Model
	editing bool
	focus   int
	width   int
	height  int
}

func New(port BankPort, currency string) Model {
	bar := progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green)), progress.WithWidth(28))
	bar.ShowPercentage = true

	placeholders := []string{"Bank", "Agency", "Account"}
	form := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 40
		in.Prompt = p + ": "
		form[i] = in
	}
	return Model{port: port, currency: currency, bar: bar, form: form}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		m.err = msg.Err
		m.bank = msg.Bank
		m.hasBank = msg.HasBank
		m.breakdown = msg.Breakdown

	case tea.KeyMsg:
		if m.editing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "w":
			return m, func() tea.Msg { return WithdrawRequestMsg{} }
		case "c":
			m.editing = true
			m.focus = 0
			return m, m.form[0].Focus()
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "tab", "down":
		return m, m.focusInput((m.focus + 1) % len(m.form))
	case "shift+tab", "up":
		return m, m.focusInput((m.focus + len(m.form) - 1) % len(m.form))
	case "enter":
		if m.focus < len(m.form)-1 {
			return m, m.focusInput(m.focus + 1)
		}
		req := ConnectRequestMsg{Bank: m.form[0].Value(), Agency: m.form[1].Value(), Account: m.form[2].Value()}
		m.closeForm()
		return m, func() tea.Msg { return req }
	}
	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.form[m.focus].Blur()
	m.focus = i
	return m.form[i].Focus()
}

func (m *Model) closeForm() {
	m.editing = false
	for i := range m.form {
		m.form[i].Blur()
		m.form[i].SetValue("")
	}
}

// Editing reports whether the connect form has focus.
func (m Model) Editing() bool { return m.editing }

// Reload fetches the account and the breakdown.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		ctx := context.Background()
		out := LoadedMsg{HasBank: true}
		bank, err := m.port.Bank(ctx)
		switch {
		case errors.Is(err, apperrors.ErrNoBankAccount):
			out.HasBank = false
		case err != nil:
			return LoadedMsg{Err: err}
		default:
			out.Bank = bank
		}
		out.Breakdown, out.Err = m.port.Breakdown(ctx)
		return out
	}
}

func (m Model) View() string {
	var account strings.Builder
	account.WriteString(theme.Title.Render("Bank account") + "\n\n")
	if m.err != nil {
		account.WriteString(theme.Error.Render(m.err.Error()) + "\n")
	}
	if m.hasBank {
		account.WriteString(m.bank.Bank + "  " + theme.Muted.Render(m.bank.Account) + "\n")
		account.WriteString(theme.Money.Render(money.Cents(m.bank.BalanceCts).Format(m.currency)) + "\n\n")
		account.WriteString(theme.Muted.Render("w: withdraw  c: connect another account"))
	} else {
		account.WriteString(theme.Muted.Render("No account connected.") + "\n\n")
		account.WriteString(theme.Muted.Render("c: connect an account"))
	}
	if m.editing {
		account.WriteString("\n\n" + theme.Hot.Render("Connect account") + "\n")
		for _, in := range m.form {
			account.WriteString(in.View() + "\n")
		}
		account.WriteString(theme.Muted.Render("enter: next/submit  esc: cancel"))
	}

	var shares strings.Builder
	shares.WriteString(theme.Title.Render("Earnings by category") + "\n\n")
	for _, row := range m.breakdown {
		shares.WriteString(fmt.Sprintf("%-7s %s  %s\n",
			row.Label,
			m.bar.ViewAs(float64(row.Percent)/100),
			theme.Money.Render(money.Cents(row.AmountCts).Format(m.currency)),
		))
	}

	halfW := m.width/2 - 2
	if halfW < 36 {
		return lipgloss.JoinVertical(lipgloss.Left, theme.Pane.Render(account.String()), theme.Pane.Render(shares.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Pane.Width(halfW).Render(account.String()),
		theme.Pane.Width(halfW).Render(shares.String()),
	)
}
