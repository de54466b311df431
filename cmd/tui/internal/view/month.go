package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

const barWidth = 24

// MonthModel shows the totals, category breakdown and movements of one month.
type MonthModel struct {
	CommonModel
	txService *transaction.Service

	month   time.Time
	summary *transaction.Summary
	table   table.Model

	loading bool
	err     error
	status  string
}

func NewMonthModel(txSvc *transaction.Service, now time.Time) MonthModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 22},
		{Title: "Amount", Width: 14},
		{Title: "Note", Width: 36},
		{Title: "Repeats", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return MonthModel{
		txService: txSvc,
		month:     transaction.MonthStart(now),
		table:     t,
		loading:   true,
	}
}

func (m MonthModel) Title() string { return "Month" }

func (m MonthModel) ShortHelp() string {
	return "Esc: back | ←/→: month | t: today | d: delete | r: refresh"
}

func (m MonthModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m MonthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMonthMsg:
		// A late answer for a month the user already left.
		if !msg.month.Equal(m.month) {
			return m, nil
		}

		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.summary = msg.summary
			m.refreshTable()
		}

		return m, nil

	case deleteTxMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = "Deleted."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-20, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			return m.showMonth(m.month.AddDate(0, -1, 0))
		case "right", "l":
			return m.showMonth(m.month.AddDate(0, 1, 0))
		case "t":
			return m.showMonth(transaction.MonthStart(time.Now()))
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "d":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m MonthModel) showMonth(month time.Time) (tea.Model, tea.Cmd) {
	m.month = month
	m.loading = true
	m.status = ""
	m.table.SetCursor(0)

	return m, m.loadCmd()
}

func (m MonthModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("‹ " + FormatMonth(m.month) + " ›")

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	sections := []string{header, "", m.totalsView(), "", m.breakdownView()}

	if len(m.summary.Transactions) == 0 {
		sections = append(sections, "", lipgloss.NewStyle().Faint(true).Render("No movements this month."))
	} else {
		sections = append(sections, "", lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()))
	}

	if m.status != "" {
		sections = append(sections, lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m MonthModel) totalsView() string {
	balance := successStyle(FormatAmount(m.summary.Balance))
	if m.summary.Balance < 0 {
		balance = errorStyle(FormatAmount(m.summary.Balance))
	}

	return fmt.Sprintf("Income %s   Expense %s   Balance %s",
		successStyle(FormatAmount(m.summary.Income)),
		errorStyle(FormatAmount(m.summary.Expense)),
		balance,
	)
}

func (m MonthModel) breakdownView() string {
	if len(m.summary.ByCategory) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No expenses.")
	}

	largest := m.summary.ByCategory[0].Amount

	var b strings.Builder

	for _, c := range m.summary.ByCategory {
		n := 1
		if largest > 0 {
			n = max(int(c.Amount*barWidth/largest), 1)
		}

		fmt.Fprintf(&b, "%-24s %s %s\n",
			transaction.CategoryLabel(c.CategoryID),
			activeStyle(strings.Repeat("█", n)),
			FormatAmount(c.Amount),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *MonthModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.summary.Transactions))

	for _, tx := range m.summary.Transactions {
		repeats := ""
		if tx.Recurrence != nil {
			repeats = string(tx.Recurrence.Frequency)
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			transaction.CategoryLabel(tx.CategoryID),
			FormatSigned(tx.Type, tx.Amount),
			tx.Note,
			repeats,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadMonthMsg struct {
	month   time.Time
	summary *transaction.Summary
	err     error
}

func (m MonthModel) loadCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.txService.Summary(ctx, month)

		return loadMonthMsg{month: month, summary: summary, err: err}
	}
}

type deleteTxMsg struct {
	err error
}

func (m MonthModel) deleteCmd() tea.Cmd {
	if m.summary == nil {
		return nil
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.summary.Transactions) {
		return nil
	}

	id := m.summary.Transactions[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteTxMsg{err: m.txService.Delete(ctx, id)}
	}
}
