package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
)

type reportState int

const (
	reportStatePeriod reportState = iota
	reportStateLoading
	reportStateShow
)

type ReportModel struct {
	CommonModel
	overview *overview.Service
	chatID   int64

	state    reportState
	picker   PeriodPicker
	spinner  spinner.Model
	viewport viewport.Model
	err      error
}

func NewReportModel(svc *overview.Service, chatID int64) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		overview: svc,
		chatID:   chatID,
		picker:   NewPeriodPicker(),
		spinner:  s,
		viewport: viewport.New(100, 30),
	}
}

func (m ReportModel) Title() string { return "Reports" }

func (m ReportModel) ShortHelp() string {
	if m.state == reportStateShow {
		return "Esc: pick another period | ↑/↓: scroll"
	}

	return "Esc: back | Enter: select"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.state = reportStateLoading
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.loadCmd(msg))

	case reportLoadedMsg:
		m.state = reportStateShow
		m.err = msg.err
		m.viewport.SetContent(msg.body)
		m.viewport.GotoTop()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 4

		return m, nil
	}

	switch m.state {
	case reportStatePeriod:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case reportStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case reportStateShow:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = reportStatePeriod
			m.picker.Reset()

			return m, nil
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case reportStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Building report...", m.spinner.View()))
	case reportStateShow:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return lipgloss.NewStyle().Padding(0, 1).Render(m.viewport.View())
	}

	return ""
}

type reportLoadedMsg struct {
	body string
	err  error
}

func (m ReportModel) loadCmd(p PeriodSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if len(p.Months) == 0 {
			y, err := m.overview.Yearly(ctx, m.chatID, p.Year)
			if err != nil {
				return reportLoadedMsg{err: err}
			}

			return reportLoadedMsg{body: render.Yearly(y)}
		}

		mo, err := m.overview.Monthly(ctx, m.chatID, p.Year, p.Months)
		if err != nil {
			return reportLoadedMsg{err: err}
		}

		return reportLoadedMsg{body: render.Monthly(mo)}
	}
}
