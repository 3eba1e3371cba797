package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fillbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fillbook/internal/balance"
	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/fillbook/internal/budget/store"
	"github.com/MrJamesThe3rd/fillbook/internal/category"
	categoryStore "github.com/MrJamesThe3rd/fillbook/internal/category/store"
	"github.com/MrJamesThe3rd/fillbook/internal/config"
	"github.com/MrJamesThe3rd/fillbook/internal/currency"
	currencyStore "github.com/MrJamesThe3rd/fillbook/internal/currency/store"
	"github.com/MrJamesThe3rd/fillbook/internal/database"
	"github.com/MrJamesThe3rd/fillbook/internal/export"
	"github.com/MrJamesThe3rd/fillbook/internal/importer"
	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	scopeStore "github.com/MrJamesThe3rd/fillbook/internal/scope/store"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/fillbook/internal/transaction/store"
)

type model struct {
	scope           *scope.Scope
	txService       *transaction.Service
	categoryService *category.Service
	overviewService *overview.Service
	budgetService   *budget.Service
	balanceService  *balance.Service
	importService   *importer.Service
	exportService   *export.Service

	currentView View
	active      tea.Model
	size        tea.WindowSizeMsg
}

type View int

const (
	ViewMenu         View = 0
	ViewReport       View = 1
	ViewTransactions View = 2
	ViewBudgets      View = 3
	ViewDebts        View = 4
	ViewImport       View = 5
	ViewExport       View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Defaults such as the current month follow the ledger's calendar.
	time.Local = loc

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txRepo := txStore.New(db, loc)
	catRepo := categoryStore.New(db)

	var (
		scopeSvc    = scope.NewService(scopeStore.New(db))
		categorySvc = category.NewService(catRepo)
		currencySvc = currency.NewService(currencyStore.New(db), cfg.Ledger.BaseCurrency)
		txSvc       = transaction.NewService(txRepo, categorySvc, currencySvc)
		reportSvc   = report.NewService(txRepo, catRepo)
		budgetSvc   = budget.NewService(budgetStore.New(db), reportSvc)
		calculator  = proportion.NewCalculator(proportion.Config{
			MinorUserID: cfg.Proportion.MinorUserID,
			MajorUserID: cfg.Proportion.MajorUserID,
		})
	)

	ctx, cancel := view.DbCtx()
	defer cancel()

	sc, err := scopeSvc.ResolveByChat(ctx, cfg.TUI.ChatID)
	if err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			slog.Error("TUI_CHAT_ID has no scope; provision it with the token command", "chat_id", cfg.TUI.ChatID)
		} else {
			slog.Error("failed to resolve scope", "chat_id", cfg.TUI.ChatID, "error", err)
		}

		os.Exit(1)
	}

	return model{
		scope:           sc,
		txService:       txSvc,
		categoryService: categorySvc,
		overviewService: overview.NewService(scopeSvc, reportSvc, budgetSvc, calculator),
		budgetService:   budgetSvc,
		balanceService:  balance.NewService(txRepo),
		importService:   importer.NewService(loc),
		exportService:   export.NewService(txSvc, reportSvc),
		currentView:     ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// open builds a fresh screen so no state leaks between visits.
func (m model) open(v View) tea.Model {
	switch v {
	case ViewReport:
		return view.NewReportModel(m.overviewService, m.scope.ChatID)
	case ViewTransactions:
		return view.NewTransactionsModel(m.txService, m.categoryService, m.scope)
	case ViewBudgets:
		return view.NewBudgetsModel(m.budgetService, m.scope)
	case ViewDebts:
		return view.NewDebtsModel(m.balanceService, m.scope)
	case ViewImport:
		return view.NewImportModel(m.txService, m.importService, m.scope)
	case ViewExport:
		return view.NewExportModel(m.exportService, m.scope)
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1", "2", "3", "4", "5", "6":
				m.currentView = View(msg.Runes[0] - '0')
				m.active = m.open(m.currentView)
				if m.size.Width == 0 {
					return m, m.active.Init()
				}

				size := m.size

				return m, tea.Batch(m.active.Init(), func() tea.Msg { return size })
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.active, cmd = m.active.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.currentView != ViewMenu && m.active != nil {
		return m.active.View()
	}

	kind := "private"
	if m.scope.IsGroup() {
		kind = "group"
	}

	return lipgloss.NewStyle().Padding(2).Render(
		"Fillbook TUI (" + kind + " chat)\n\n" +
			"1. Reports\n" +
			"2. Transactions\n" +
			"3. Budgets\n" +
			"4. Debts\n" +
			"5. Import Transactions\n" +
			"6. Export Ledger\n\n" +
			"q. Quit",
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
