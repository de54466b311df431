package main

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cashly/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cashly/internal/config"
	"github.com/MrJamesThe3rd/cashly/internal/database"
	"github.com/MrJamesThe3rd/cashly/internal/export"
	"github.com/MrJamesThe3rd/cashly/internal/extract"
	"github.com/MrJamesThe3rd/cashly/internal/importer"
	"github.com/MrJamesThe3rd/cashly/internal/ocr"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
	txStore "github.com/MrJamesThe3rd/cashly/internal/transaction/store"
)

type model struct {
	txService     *transaction.Service
	importService *importer.Service
	exportService *export.Service

	currentView View
	width       int
	height      int

	monthView  view.MonthModel
	entryView  view.EntryModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewMonth  View = 1
	ViewEntry  View = 2
	ViewImport View = 3
	ViewExport View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db))
	impSvc := importer.NewService(extract.New(), ocr.NewTesseract(cfg.OCR.Binary, cfg.OCR.Languages))
	expSvc := export.NewService(txSvc)

	return model{
		txService:     txSvc,
		importService: impSvc,
		exportService: expSvc,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewMonth
				m.monthView = view.NewMonthModel(m.txService, time.Now())

				return m, tea.Batch(m.monthView.Init(), m.resize)
			case "2":
				m.currentView = ViewEntry
				m.entryView = view.NewEntryModel(m.txService, time.Now())

				return m, m.entryView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.txService, m.importService)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewMonth:
		var newModel tea.Model
		newModel, cmd = m.monthView.Update(msg)
		m.monthView = newModel.(view.MonthModel)
	case ViewEntry:
		var newModel tea.Model
		newModel, cmd = m.entryView.Update(msg)
		m.entryView = newModel.(view.EntryModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

// resize replays the last known terminal size to a freshly created view.
func (m model) resize() tea.Msg {
	if m.width == 0 {
		return nil
	}

	return tea.WindowSizeMsg{Width: m.width, Height: m.height}
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Cashly\n\n" +
				"1. Month Overview\n" +
				"2. Add Movement\n" +
				"3. Import\n" +
				"4. Export Backup\n\n" +
				"q. Quit",
		)
	case ViewMonth:
		current = m.monthView
	case ViewEntry:
		current = m.entryView
	case ViewImport:
		current = m.importView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).Render(current.ShortHelp())
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Render(current.Title())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
