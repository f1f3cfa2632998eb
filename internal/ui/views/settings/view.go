package settings

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	earningsdto "moneywatch/internal/modules/earnings/dto"
	"moneywatch/internal/platform/money"
	"moneywatch/internal/ui/theme"
)

type SettingsPort interface {
	Settings(ctx context.Context) (earningsdto.SettingsOutput, error)
}

type LoadedMsg struct {
	Settings earningsdto.SettingsOutput
	Err      error
}

// Model renders the monetisation settings. Nothing here is editable.
type Model struct {
	port     SettingsPort
	settings earningsdto.SettingsOutput
	err      error
	width    int
}

func New(port SettingsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		s, err := m.port.Settings(context.Background())
		return LoadedMsg{Settings: s, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case LoadedMsg:
		m.settings = msg.Settings
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("settings: " + m.err.Error())
	}
	s := m.settings
	auto := "off"
	if s.AutoWithdraw {
		auto = "on"
	}
	rows := [][2]string{
		{"Rate per minute", money.Cents(s.PerMinuteCts).Format(s.Currency)},
		{"Rate per second", money.Cents(s.PerSecondCts).Format(s.Currency)},
		{"Minimum withdrawal", money.Cents(s.MinWithdrawalCts).Format(s.Currency)},
		{"Auto-withdraw", auto},
		{"Quick-add duration", fmt.Sprintf("%d to %d min", s.QuickAddMinMinutes, s.QuickAddMaxMinutes)},
		{"Accrual interval", s.TickInterval.String()},
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Settings") + "\n\n")
	for _, row := range rows {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-20s", row[0])) + row[1] + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("Change these in the config file or with MONEYWATCH_* variables."))
	return theme.Pane.Render(sb.String())
}
