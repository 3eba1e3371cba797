package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fillbook/internal/export"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

// exportFields outlives model copies so the form can write into it.
type exportFields struct {
	year string
	path string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	scope         *scope.Scope

	state   exportState
	err     error
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model
	written string
}

func NewExportModel(svc *export.Service, sc *scope.Scope) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		scope:         sc,
		fields:        &exportFields{year: strconv.Itoa(time.Now().Year()), path: "./exports"},
		spinner:       s,
	}
	m.form = buildExportForm(m.fields)

	return m
}

func (m ExportModel) Title() string { return "Export Ledger" }

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

	year, _ := strconv.Atoi(strings.TrimSpace(m.fields.year))

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(year, m.fields.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.written = result.path

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildExportForm(f *exportFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("year").
				Title("Year").
				Value(&f.year).
				Validate(func(s string) error {
					if _, months, err := ParsePeriod(s); err != nil || months != nil {
						return fmt.Errorf("enter a year (YYYY)")
					}

					return nil
				}),
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&f.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Building workbook...", m.spinner.View()),
		)

	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!")

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", "Written to "+m.written),
		)
	}

	return ""
}

type exportResultMsg struct {
	path string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(year int, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(dir, fmt.Sprintf("ledger_%d_%d.xlsx", m.scope.ID, year))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("creating workbook: %w", err)}
		}

		if err := m.exportService.Export(ctx, m.scope, year, f); err != nil {
			f.Close()
			os.Remove(path)

			return exportResultMsg{err: err}
		}

		if err := f.Close(); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path}
	}
}
