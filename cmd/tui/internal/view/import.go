package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashly/internal/extract"
	"github.com/MrJamesThe3rd/cashly/internal/importer"
	"github.com/MrJamesThe3rd/cashly/internal/ocr"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateWorking
	importStateReview
	importStateResult
)

type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model

	candidates    []extract.Candidate
	candidateList list.Model
	selected      map[int]bool

	cancel context.CancelFunc
	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".txt", ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff", ".gif", ".csv", ".json"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		filePicker:    fp,
		spinner:       s,
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateReview:
		return "Space: toggle | a: all | n: none | Enter: save selected | Esc: discard"
	case importStateWorking:
		return "Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateReview {
			return m.updateReview(msg)
		}

	case extractResultMsg:
		m.cancel = nil

		switch {
		case errors.Is(msg.err, context.Canceled):
			m.state = importStateFilePick
			m.status = ""

			return m, nil
		case errors.Is(msg.err, importer.ErrNoCandidates):
			m.state = importStateResult
			m.status = "No movements detected."

			return m, nil
		case msg.err != nil:
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.startReview(msg.candidates)

		return m, nil

	case restoreResultMsg:
		m.state = importStateResult
		m.cancel = nil

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Restored %d movements, skipped %d.", msg.imported, msg.skipped)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d movements.", msg.count)

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateWorking {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		return m.startImport(path)
	}

	return m, cmd
}

func (m ImportModel) startImport(path string) (tea.Model, tea.Cmd) {
	format, err := importer.FormatOf(path)
	if err != nil {
		m.state = importStateResult
		m.err = err
		m.status = fmt.Sprintf("Error: %v", err)

		return m, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	m.cancel = cancel
	m.state = importStateWorking
	m.err = nil
	m.status = fmt.Sprintf("Reading %s...", filepath.Base(path))

	if format == importer.FormatJSON {
		return m, tea.Batch(m.spinner.Tick, m.restoreCmd(ctx, cancel, path))
	}

	return m, tea.Batch(m.spinner.Tick, m.extractCmd(ctx, cancel, format, path))
}

func (m *ImportModel) startReview(candidates []extract.Candidate) {
	m.candidates = candidates
	m.selected = make(map[int]bool, len(candidates))

	// Everything detected starts accepted; the user unticks the noise.
	items := make([]list.Item, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{candidate: c, index: i}
		m.selected[i] = true
	}

	delegate := candidateDelegate{selected: &m.selected}
	m.candidateList = list.New(items, delegate, 80, 20)
	m.candidateList.Title = fmt.Sprintf("%d movements detected", len(candidates))
	m.candidateList.SetShowStatusBar(false)
	m.candidateList.SetFilteringEnabled(false)
	m.candidateList.SetShowHelp(false)

	m.state = importStateReview
	m.status = ""
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateWorking:
		if m.cancel != nil {
			m.cancel()
		}

		return m, nil
	case importStateResult, importStateReview:
		m.state = importStateFilePick
		m.candidates = nil
		m.selected = make(map[int]bool)
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.candidateList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.candidates {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.candidates {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		m.state = importStateWorking
		m.status = "Saving..."

		return m, tea.Batch(m.spinner.Tick, m.confirmCmd())
	}

	var cmd tea.Cmd
	m.candidateList, cmd = m.candidateList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a screenshot, text, bank CSV or JSON backup:\n\n" + m.filePicker.View(),
		)
	case importStateWorking:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " " + m.status)
	case importStateReview:
		return lipgloss.NewStyle().Padding(1).Render(m.candidateList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	status := successStyle(m.status)
	if m.err != nil {
		status = errorStyle(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(status + "\n\n(Esc to go back)")
}

// Messages

type extractResultMsg struct {
	candidates []extract.Candidate
	err        error
}

type restoreResultMsg struct {
	imported int
	skipped  int
	err      error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) extractCmd(ctx context.Context, cancel context.CancelFunc, format importer.Format, path string) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		if format == importer.FormatImage {
			images := []ocr.Image{{
				Name: filepath.Base(path),
				Open: func() (io.ReadCloser, error) { return os.Open(path) },
			}}

			candidates, err := m.importService.ExtractImages(ctx, images, nil)

			return extractResultMsg{candidates: candidates, err: err}
		}

		f, err := os.Open(path)
		if err != nil {
			return extractResultMsg{err: err}
		}
		defer f.Close()

		if format == importer.FormatText {
			candidates, err := m.importService.ExtractText(f)
			return extractResultMsg{candidates: candidates, err: err}
		}

		params, err := m.importService.ImportStatement(f)
		if err != nil {
			return extractResultMsg{err: err}
		}

		if len(params) == 0 {
			return extractResultMsg{err: importer.ErrNoCandidates}
		}

		return extractResultMsg{candidates: statementCandidates(params)}
	}
}

func (m ImportModel) restoreCmd(ctx context.Context, cancel context.CancelFunc, path string) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		f, err := os.Open(path)
		if err != nil {
			return restoreResultMsg{err: err}
		}
		defer f.Close()

		params, skipped, err := m.importService.ImportJSON(f)
		if err != nil {
			return restoreResultMsg{err: err}
		}

		txs, err := m.txService.CreateBatch(ctx, params)
		if err != nil {
			return restoreResultMsg{err: err}
		}

		return restoreResultMsg{imported: len(txs), skipped: skipped}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	candidates := m.candidates

	var selected []int

	for i := range candidates {
		if m.selected[i] {
			selected = append(selected, i)
		}
	}

	return func() tea.Msg {
		params := importer.Promote(candidates, selected)
		if len(params) == 0 {
			return confirmResultMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, params)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs)}
	}
}

// statementCandidates lets bank statement rows go through the same review as OCR results.
func statementCandidates(params []transaction.CreateParams) []extract.Candidate {
	candidates := make([]extract.Candidate, len(params))

	for i, p := range params {
		candidates[i] = extract.Candidate{
			Type:        p.Type,
			Amount:      p.Amount,
			Date:        p.Date,
			Description: p.Note,
			CategoryID:  p.CategoryID,
		}
	}

	return candidates
}

// Candidate list item

type candidateItem struct {
	candidate extract.Candidate
	index     int
}

func (i candidateItem) Title() string       { return "" }
func (i candidateItem) Description() string { return "" }
func (i candidateItem) FilterValue() string { return i.candidate.Description }

// Candidate list delegate

type candidateDelegate struct {
	selected *map[int]bool
}

func (d candidateDelegate) Height() int                             { return 2 }
func (d candidateDelegate) Spacing() int                            { return 0 }
func (d candidateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(candidateItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	c := item.candidate

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, checkbox,
		c.ISODate(),
		FormatSigned(c.Type, c.Amount),
		c.Description,
	)

	line2 := lipgloss.NewStyle().Faint(true).Render("      " + transaction.CategoryLabel(c.CategoryID))

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
