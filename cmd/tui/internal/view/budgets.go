package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

type budgetState int

const (
	budgetStateBrowse budgetState = iota
	budgetStateEdit
)

type budgetRow struct {
	budget *budget.Budget
	usage  *budget.Usage
}

type BudgetsModel struct {
	CommonModel
	budgetService *budget.Service
	scope         *scope.Scope

	state budgetState
	table table.Model
	rows  []budgetRow
	form  *huh.Form

	loading bool
	err     error
	status  string

	fields *budgetFields
}

// budgetFields outlives model copies so the form can write into it.
type budgetFields struct {
	code    string
	monthly string
	quarter string
	year    string
}

func NewBudgetsModel(svc *budget.Service, sc *scope.Scope) BudgetsModel {
	columns := []table.Column{
		{Title: "Category", Width: 10},
		{Title: "Month", Width: 12},
		{Title: "Limit", Width: 12},
		{Title: "Quarter", Width: 12},
		{Title: "Limit", Width: 12},
		{Title: "Year", Width: 12},
		{Title: "Limit", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return BudgetsModel{
		budgetService: svc,
		scope:         sc,
		table:         t,
		loading:       true,
	}
}

func (m BudgetsModel) Title() string { return "Budgets" }

func (m BudgetsModel) ShortHelp() string {
	if m.state == budgetStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | n: new | r: refresh"
}

func (m BudgetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBudgetsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case budgetSaveMsg:
		m.state = budgetStateBrowse
		m.form = nil
		m.table.Focus()
		m.status = ""

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case budgetStateBrowse:
		return m.updateBrowse(msg)
	case budgetStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m BudgetsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.rows) {
				return m, nil
			}

			return m.enterEditMode(m.rows[idx].budget)
		case "n":
			return m.enterEditMode(nil)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BudgetsModel) enterEditMode(b *budget.Budget) (tea.Model, tea.Cmd) {
	m.fields = &budgetFields{}

	if b != nil {
		m.fields = &budgetFields{
			code:    b.CategoryCode,
			monthly: limitInput(b.MonthlyLimit),
			quarter: limitInput(b.QuarterLimit),
			year:    limitInput(b.YearLimit),
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("code").
				Title("Category").
				Value(&m.fields.code).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category cannot be empty")
					}

					return nil
				}),
			limitField("Monthly limit", &m.fields.monthly),
			limitField("Quarter limit", &m.fields.quarter),
			limitField("Year limit", &m.fields.year),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func limitField(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("empty for no limit").
		Value(value).
		Validate(func(s string) error {
			_, err := ParseLimit(s)
			return err
		})
}

func (m BudgetsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m BudgetsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budgets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Usage as of %s", activeStyle(FormatDate(time.Now())))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == budgetStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Edit Budget\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BudgetsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))

	for _, r := range m.rows {
		var u budget.Usage
		if r.usage != nil {
			u = *r.usage
		}

		rows = append(rows, table.Row{
			r.budget.CategoryCode,
			usageCell(u.Month),
			limitInput(r.budget.MonthlyLimit),
			usageCell(u.Quarter),
			limitInput(r.budget.QuarterLimit),
			usageCell(u.Year),
			limitInput(r.budget.YearLimit),
		})
	}

	m.table.SetRows(rows)
}

func usageCell(th budget.Threshold) string {
	return fmt.Sprintf("%s %s", render.Amount(th.Amount), render.Mark(th))
}

func limitInput(limit *int64) string {
	if limit == nil {
		return ""
	}

	return render.Amount(*limit)
}

// ParseLimit reads a limit in base currency units. An empty string means
// no limit.
func ParseLimit(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	if d.IsNegative() {
		return nil, fmt.Errorf("limit cannot be negative")
	}

	return new(d.Shift(2).Round(0).IntPart()), nil
}

// Messages

type loadBudgetsMsg struct {
	rows []budgetRow
	err  error
}

func (m BudgetsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		budgets, err := m.budgetService.List(ctx, m.scope)
		if err != nil {
			return loadBudgetsMsg{err: err}
		}

		now := time.Now()
		rows := make([]budgetRow, 0, len(budgets))

		for _, b := range budgets {
			u, err := m.budgetService.UsageFor(ctx, b.CategoryCode, m.scope, now)
			if err != nil {
				return loadBudgetsMsg{err: err}
			}

			rows = append(rows, budgetRow{budget: b, usage: u})
		}

		return loadBudgetsMsg{rows: rows}
	}
}

type budgetSaveMsg struct {
	err error
}

func (m BudgetsModel) saveCmd() tea.Cmd {
	code := strings.ToUpper(strings.TrimSpace(m.fields.code))
	inputs := []string{m.fields.monthly, m.fields.quarter, m.fields.year}

	return func() tea.Msg {
		parsed := make([]*int64, len(inputs))

		for i, in := range inputs {
			l, err := ParseLimit(in)
			if err != nil {
				return budgetSaveMsg{err: err}
			}

			parsed[i] = l
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.budgetService.SetLimits(ctx, m.scope, code, budget.Limits{
			Monthly: parsed[0],
			Quarter: parsed[1],
			Year:    parsed[2],
		})

		return budgetSaveMsg{err: err}
	}
}
