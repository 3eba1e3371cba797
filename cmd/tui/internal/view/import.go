package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fillbook/internal/importer"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormat importState = iota
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service
	scope         *scope.Scope

	state      importState
	formatForm *huh.Form
	format     *importer.Format
	filePicker filepicker.Model

	newParams    []transaction.CreateParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	summary string
	err     error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service, sc *scope.Scope) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		txService:     txSvc,
		importService: impSvc,
		scope:         sc,
		filePicker:    fp,
		format:        new(importer.FormatLedgerCSV),
		selected:      make(map[int]bool),
	}
	m.formatForm = m.buildFormatForm()

	return m
}

func (m ImportModel) buildFormatForm() *huh.Form {
	formats := m.importService.Formats()

	options := make([]huh.Option[importer.Format], 0, len(formats))
	for _, f := range formats {
		options = append(options, huh.NewOption(string(f), f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[importer.Format]().
				Title("Statement format").
				Description(fmt.Sprintf("Rows are imported into scope %d", m.scope.ID)).
				Options(options...).
				Value(m.format),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.formatForm.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.handleEsc()
	}

	switch msg := msg.(type) {
	case importResultMsg:
		return m.handleImported(msg)

	case confirmResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err == nil {
			m.summary = summarize(msg.txs, msg.skipped)
		}

		return m, nil
	}

	switch m.state {
	case importStateFormat:
		form, cmd := m.formatForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.formatForm = f
		}

		if m.formatForm.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = importStateFilePick

		return m, m.filePicker.Init()

	case importStateFilePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = importStateImporting
			m.summary = fmt.Sprintf("Importing from %s...", path)

			return m, m.importCmd(*m.format, path)
		}

		return m, cmd

	case importStateConflicts:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.updateConflicts(keyMsg)
		}
	}

	return m, nil
}

func (m ImportModel) handleImported(msg importResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = importStateResult
		m.err = msg.err

		return m, nil
	}

	if len(msg.result.Conflicts) == 0 {
		m.state = importStateResult
		m.summary = summarize(msg.result.Imported, 0)

		return m, nil
	}

	m.newParams = msg.result.New
	m.conflicts = msg.result.Conflicts
	m.selected = make(map[int]bool)
	m.state = importStateConflicts

	items := make([]list.Item, len(m.conflicts))
	for i, c := range m.conflicts {
		items[i] = conflictItem{conflict: c, index: i}
	}

	m.conflictList = list.New(items, conflictDelegate{selected: m.selected}, 80, 20)
	m.conflictList.Title = fmt.Sprintf("%d rows already recorded (%d new)", len(m.conflicts), len(m.newParams))
	m.conflictList.SetShowStatusBar(false)
	m.conflictList.SetFilteringEnabled(false)
	m.conflictList.SetShowHelp(false)

	return m, nil
}

// handleEsc steps back one stage; from the first stage it leaves the screen.
func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult, importStateConflicts:
		fresh := NewImportModel(m.txService, m.importService, m.scope)
		return fresh, fresh.Init()
	}

	return m, Back
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a", "n":
		for i := range m.conflicts {
			m.selected[i] = msg.String() == "a"
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormat:
		return lipgloss.NewStyle().Padding(1).Render(m.formatForm.View())
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", *m.format, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.summary)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(
			m.conflictList.View() + "\n" + faintStyle.Render("Selected rows are imported again; the rest are skipped."),
		)
	case importStateResult:
		style := lipgloss.NewStyle().Padding(2)
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
		}

		return style.Render(successStyle.Render(m.summary) + "\n\n(Esc to go back)")
	}

	return ""
}

// summarize reports what an import wrote, split by transaction type.
func summarize(txs []*transaction.Transaction, skipped int) string {
	var expenses, income int64

	for _, tx := range txs {
		if tx.Type == transaction.TypeExpense {
			expenses += tx.Amount
		} else {
			income += tx.Amount
		}
	}

	s := fmt.Sprintf("Imported %d transactions: expenses %s, income %s.",
		len(txs), render.Amount(expenses), render.Amount(income))

	if skipped > 0 {
		s += fmt.Sprintf(" Skipped %d duplicates.", skipped)
	}

	return s
}

// Messages

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	txs     []*transaction.Transaction
	skipped int
	err     error
}

func (m ImportModel) importCmd(format importer.Format, path string) tea.Cmd {
	scopeID := m.scope.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(format, scopeID, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.txService.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	all := append([]transaction.CreateParams(nil), m.newParams...)
	skipped := 0

	for i, c := range m.conflicts {
		if !m.selected[i] {
			skipped++
			continue
		}

		all = append(all, c.Incoming)
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, all)

		return confirmResultMsg{txs: txs, skipped: skipped, err: err}
	}
}

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) FilterValue() string { return i.conflict.Incoming.Description }

// conflictDelegate reads the model's selection map.
type conflictDelegate struct {
	selected map[int]bool
}

func (d conflictDelegate) Height() int                             { return 2 }
func (d conflictDelegate) Spacing() int                            { return 1 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	in, existing := item.conflict.Incoming, item.conflict.Existing

	fmt.Fprintf(w, "%s%s %s  %s %s  %s  %s\n",
		cursor, checkbox, FormatDate(in.Date), in.Amount.StringFixed(2), in.Currency, in.Type, in.Description)
	fmt.Fprintf(w, "      %s\n", faintStyle.Render(fmt.Sprintf("recorded: %s  %s by %s",
		FormatDate(existing.Date), render.Amount(existing.Amount), existing.User.DisplayName())))
}
