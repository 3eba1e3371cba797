package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

type txState int

const (
	txStatePeriod txState = iota
	txStateList
	txStateEditing
)

type txAction int

const (
	txActionCategory txAction = iota
	txActionDate
	txActionDelete
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	label := i.tx.CategoryCode
	if i.tx.Type == transaction.TypeIncome {
		label = "income"
	}

	tag := faintStyle.Render(fmt.Sprintf("[%s]", label))

	return fmt.Sprintf("%s  %10s  %s  %s", FormatDate(i.tx.Date), render.Amount(i.tx.Amount), tag, i.tx.Description)
}

func (i txItem) Description() string {
	parts := []string{i.tx.User.DisplayName()}

	if i.tx.OriginalAmount != nil {
		parts = append(parts, fmt.Sprintf("%s %s", i.tx.OriginalAmount.StringFixed(2), i.tx.OriginalCurrency))
	}

	if i.tx.IsNetted {
		parts = append(parts, "netted")
	}

	return strings.Join(parts, " · ")
}

func (i txItem) FilterValue() string {
	return i.tx.Description
}

type TransactionsModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *category.Service
	scope           *scope.Scope

	state      txState
	picker     PeriodPicker
	period     PeriodSelectedMsg
	list       list.Model
	form       *huh.Form
	categories []*category.Category
	txs        []*transaction.Transaction
	selectedTx *transaction.Transaction
	action     txAction

	loading bool
	status  string

	fields *txFields
}

// txFields outlives model copies so the form can write into it.
type txFields struct {
	category string
	date     string
	confirm  bool
}

func NewTransactionsModel(txSvc *transaction.Service, catSvc *category.Service, sc *scope.Scope) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		txService:       txSvc,
		categoryService: catSvc,
		scope:           sc,
		picker:          NewPeriodPicker(),
		list:            l,
	}
}

func (m TransactionsModel) Title() string { return "Manage Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStatePeriod:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | c: category | d: date | x: delete | /: filter"
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCategoriesCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.period = msg
		m.loading = true
		m.state = txStateList
		m.list.Title = "Transactions " + msg.Label()

		return m, m.loadTxsCmd()

	case loadCategoriesMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading categories: %v", msg.err)
			return m, nil
		}

		m.categories = msg.categories

		return m, nil

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStatePeriod:
		return m.updatePeriod(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m TransactionsModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			m.state = txStatePeriod
			m.status = ""
			m.picker.Reset()

			return m, nil
		case "c":
			return m.startEditing(txActionCategory)
		case "d":
			return m.startEditing(txActionDate)
		case "x":
			return m.startEditing(txActionDelete)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing(action txAction) (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	// Transactions pulled in from report scopes are read-only here.
	if selected.tx.ScopeID != m.scope.ID {
		m.status = "This transaction belongs to another chat."
		return m, nil
	}

	if action == txActionCategory && selected.tx.Type != transaction.TypeExpense {
		m.status = "Only expenses have a category."
		return m, nil
	}

	m.selectedTx = selected.tx
	m.action = action
	m.fields = &txFields{category: selected.tx.CategoryCode, date: FormatDate(selected.tx.Date)}

	var field huh.Field

	switch action {
	case txActionCategory:
		options := make([]huh.Option[string], 0, len(m.categories))
		for _, c := range m.categories {
			options = append(options, huh.NewOption(fmt.Sprintf("%s %s", c.Code, c.Name), c.Code))
		}

		field = huh.NewSelect[string]().
			Key("category").
			Title("Category").
			Description("The description is learned as an alias of the new category").
			Options(options...).
			Value(&m.fields.category)
	case txActionDate:
		field = huh.NewInput().
			Key("date").
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fields.date).
			Validate(func(s string) error {
				if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD")
				}

				return nil
			})
	case txActionDelete:
		field = huh.NewConfirm().
			Key("confirm").
			Title("Delete this transaction?").
			Affirmative("Delete").
			Negative("Keep").
			Value(&m.fields.confirm)
	}

	m.form = huh.NewForm(huh.NewGroup(field)).WithWidth(50).WithShowHelp(false)
	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.txInfoView() + "\n" + m.form.View())
	}

	return ""
}

func (m TransactionsModel) txInfoView() string {
	if m.selectedTx == nil {
		return ""
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date: %s  |  Type: %s  |  Amount: %s\n%s",
			FormatDate(m.selectedTx.Date),
			m.selectedTx.Type,
			render.Amount(m.selectedTx.Amount),
			m.selectedTx.Description,
		))
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type loadCategoriesMsg struct {
	categories []*category.Category
	err        error
}

func (m TransactionsModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := m.categoryService.List(ctx)

		return loadCategoriesMsg{categories: cats, err: err}
	}
}

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	filter := transaction.ListFilter{
		ScopeIDs: m.scope.Expand(),
		Year:     m.period.Year,
		Months:   m.period.Months,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadTxsMsg{txs: txs, err: err}
	}
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	var (
		tx      = m.selectedTx
		action  = m.action
		code    = m.fields.category
		date    = strings.TrimSpace(m.fields.date)
		confirm = m.fields.confirm
		txSvc   = m.txService
	)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch action {
		case txActionCategory:
			if code == tx.CategoryCode {
				return saveTxResultMsg{status: "Category unchanged."}
			}

			if _, err := txSvc.ChangeCategory(ctx, tx.ID, code); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: fmt.Sprintf("Moved to %s.", code)}

		case txActionDate:
			d, err := time.ParseInLocation(time.DateOnly, date, tx.Date.Location())
			if err != nil {
				return saveTxResultMsg{err: err}
			}

			if err := txSvc.ChangeDate(ctx, tx.ID, d); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Date changed."}

		case txActionDelete:
			if !confirm {
				return saveTxResultMsg{status: "Kept."}
			}

			if err := txSvc.Delete(ctx, tx.ID); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Deleted."}
		}

		return saveTxResultMsg{}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
