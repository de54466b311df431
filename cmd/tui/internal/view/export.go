package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashly/internal/export"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportFields struct {
	dir   string
	start string
	end   string
}

// filter turns the optional date bounds into a list filter. Empty bounds are open.
func (f *exportFields) filter() (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	if s := strings.TrimSpace(f.start); s != "" {
		start, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid start date %q", s)
		}

		filter.StartDate = &start
	}

	if s := strings.TrimSpace(f.end); s != "" {
		end, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid end date %q", s)
		}

		filter.EndDate = &end
	}

	return filter, nil
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state   exportState
	fields  *exportFields
	form    *huh.Form
	spinner spinner.Model

	path  string
	count int
	err   error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fields := &exportFields{dir: "./exports"}

	return ExportModel{
		exportService: svc,
		state:         exportStateForm,
		fields:        fields,
		form:          newExportForm(fields),
		spinner:       s,
	}
}

func newExportForm(f *exportFields) *huh.Form {
	validDate := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}

		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
			return errors.New("use YYYY-MM-DD or leave empty")
		}

		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&f.dir),

			huh.NewInput().
				Key("start").
				Title("From").
				Description("Optional, YYYY-MM-DD").
				Value(&f.start).
				Validate(validDate),

			huh.NewInput().
				Key("end").
				Title("To").
				Description("Optional, YYYY-MM-DD").
				Value(&f.end).
				Validate(validDate),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Title() string { return "Export Backup" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.path = result.path
		m.count = result.count

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Writing backup...", m.spinner.View()),
		)

	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		}

		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!")

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				header,
				"",
				fmt.Sprintf("%d movements written to %s", m.count, m.path),
			),
		)
	}

	return ""
}

type exportResultMsg struct {
	path  string
	count int
	err   error
}

func (m ExportModel) runExportCmd() tea.Cmd {
	fields := *m.fields

	return func() tea.Msg {
		filter, err := fields.filter()
		if err != nil {
			return exportResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		path, count, err := writeBackup(ctx, m.exportService, filter, fields.dir, time.Now())

		return exportResultMsg{path: path, count: count, err: err}
	}
}

func writeBackup(ctx context.Context, svc *export.Service, filter transaction.ListFilter, dir string, now time.Time) (string, int, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, export.FileName(now))

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating export file: %w", err)
	}

	count, err := svc.Export(ctx, filter, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return "", 0, err
	}

	return path, count, nil
}
