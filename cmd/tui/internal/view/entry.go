package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashly/internal/money"
	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

const noRecurrence = ""

// entryFields holds the form bindings. It lives behind a pointer so the bindings
// survive the model being copied on every update.
type entryFields struct {
	txType     string
	amount     string
	categoryID string
	date       string
	note       string
	freq       string
	endsOn     string
}

func (f *entryFields) params() (transaction.CreateParams, error) {
	cents, err := money.ParseCents(f.amount)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
	if err != nil {
		return transaction.CreateParams{}, transaction.ErrInvalidDate
	}

	p := transaction.CreateParams{
		Type:       transaction.Type(f.txType),
		Amount:     cents,
		CategoryID: f.categoryID,
		Date:       date,
		Note:       strings.TrimSpace(f.note),
	}

	if f.freq != noRecurrence {
		p.Recurrence = &recurrence.Rule{
			Frequency: recurrence.Frequency(f.freq),
			EndsOn:    strings.TrimSpace(f.endsOn),
		}
	}

	return p, nil
}

type EntryModel struct {
	CommonModel
	txService *transaction.Service

	fields *entryFields
	form   *huh.Form
	saving bool
	status string
	err    error
}

func NewEntryModel(txSvc *transaction.Service, now time.Time) EntryModel {
	fields := &entryFields{
		txType: string(transaction.TypeExpense),
		date:   now.Format(time.DateOnly),
		freq:   noRecurrence,
	}

	return EntryModel{
		txService: txSvc,
		fields:    fields,
		form:      newEntryForm(fields),
	}
}

func newEntryForm(f *entryFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&f.txType),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12,50").
				Value(&f.amount).
				Validate(func(s string) error {
					cents, err := money.ParseCents(s)
					if err != nil {
						return errors.New("enter an amount like 12,50")
					}

					if cents <= 0 {
						return errors.New("amount must be greater than zero")
					}

					return nil
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return errors.New("use YYYY-MM-DD")
					}

					return nil
				}),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					cats := transaction.CategoriesOf(transaction.Type(f.txType))
					opts := make([]huh.Option[string], len(cats))

					for i, c := range cats {
						opts[i] = huh.NewOption(c.Emoji+" "+c.Name, c.ID)
					}

					return opts
				}, &f.txType).
				Value(&f.categoryID),

			huh.NewInput().
				Key("note").
				Title("Note").
				CharLimit(500).
				Value(&f.note),

			huh.NewSelect[string]().
				Key("recurrence").
				Title("Repeats").
				Options(
					huh.NewOption("No", noRecurrence),
					huh.NewOption("Every month", string(recurrence.FrequencyMonthly)),
					huh.NewOption("Every week", string(recurrence.FrequencyWeekly)),
				).
				Value(&f.freq),
		),

		huh.NewGroup(
			huh.NewInput().
				Key("ends_on").
				Title("Repeat until").
				Description("Optional. Occurrences never go past one year.").
				Placeholder("YYYY-MM-DD").
				Value(&f.endsOn).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return errors.New("use YYYY-MM-DD or leave empty")
					}

					return nil
				}),
		).WithHideFunc(func() bool { return f.freq == noRecurrence }),
	).WithWidth(50).WithShowHelp(false)
}

func (m EntryModel) Title() string { return "New Movement" }

func (m EntryModel) ShortHelp() string {
	if m.status != "" {
		return "Esc: back | n: new movement"
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m EntryModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entrySavedMsg:
		m.saving = false
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Saved %s on %s.", FormatSigned(msg.tx.Type, msg.tx.Amount), FormatDate(msg.tx.Date))

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.status != "" {
			if msg.String() == "n" {
				next := NewEntryModel(m.txService, time.Now())
				return next, next.Init()
			}

			return m, nil
		}
	}

	if m.saving || m.status != "" {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.saving = true

	return m, m.saveCmd()
}

func (m EntryModel) View() string {
	if m.saving {
		return lipgloss.NewStyle().Padding(2).Render("Saving...")
	}

	if m.status != "" {
		status := successStyle(m.status)
		if m.err != nil {
			status = errorStyle(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(status + "\n\n(n: add another, Esc: back)")
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View())
}

type entrySavedMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m EntryModel) saveCmd() tea.Cmd {
	params, err := m.fields.params()
	if err != nil {
		return func() tea.Msg { return entrySavedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, params)

		return entrySavedMsg{tx: tx, err: err}
	}
}
