package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fillbook/internal/balance"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

type debtsState int

const (
	debtsStatePeriod debtsState = iota
	debtsStateShow
	debtsStateConfirm
)

type DebtsModel struct {
	CommonModel
	balanceService *balance.Service
	scope          *scope.Scope

	state  debtsState
	picker PeriodPicker
	form   *huh.Form
	body   string
	status string
	err    error

	confirmNet *bool
}

func NewDebtsModel(svc *balance.Service, sc *scope.Scope) DebtsModel {
	return DebtsModel{
		balanceService: svc,
		scope:          sc,
		picker:         NewPeriodPicker(),
	}
}

func (m DebtsModel) Title() string { return "Debts" }

func (m DebtsModel) ShortHelp() string {
	switch m.state {
	case debtsStateShow:
		return "Esc: pick another period | n: net all open expenses"
	case debtsStateConfirm:
		return "Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m DebtsModel) Init() tea.Cmd {
	return nil
}

func (m DebtsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.state = debtsStateShow
		m.status = ""

		return m, m.loadCmd(msg)

	case debtsLoadedMsg:
		m.err = msg.err
		m.body = msg.body

		return m, nil

	case netResultMsg:
		m.state = debtsStateShow
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Netted %d transactions.", msg.netted)

		return m, nil
	}

	switch m.state {
	case debtsStatePeriod:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case debtsStateShow:
		keyMsg, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}

		switch keyMsg.String() {
		case "esc":
			m.state = debtsStatePeriod
			m.picker.Reset()
		case "n":
			if m.err != nil {
				return m, nil
			}

			m.confirmNet = new(false)
			m.form = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Key("net").
						Title("Mark every open expense of this chat as netted?").
						Affirmative("Net").
						Negative("Cancel").
						Value(m.confirmNet),
				),
			).WithWidth(60).WithShowHelp(false)
			m.state = debtsStateConfirm

			return m, m.form.Init()
		}

		return m, nil

	case debtsStateConfirm:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = debtsStateShow
			m.form = nil

			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		if !*m.confirmNet {
			m.state = debtsStateShow
			m.form = nil

			return m, nil
		}

		return m, m.netCmd()
	}

	return m, nil
}

func (m DebtsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case debtsStatePeriod:
		return style.Render(m.picker.View())

	case debtsStateShow:
		if m.err != nil {
			return style.Render(errorStyle.Render(m.err.Error()))
		}

		body := m.body
		if m.status != "" {
			body = successStyle.Render(m.status) + "\n\n" + body
		}

		return style.Render(body)

	case debtsStateConfirm:
		return style.Render(m.body + "\n\n" + m.form.View())
	}

	return ""
}

type debtsLoadedMsg struct {
	body string
	err  error
}

func (m DebtsModel) loadCmd(p PeriodSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		report, err := m.balanceService.DebtReport(ctx, m.scope, p.Year, p.Months)
		if errors.Is(err, balance.ErrNotGroupScope) {
			return debtsLoadedMsg{body: faintStyle.Render("Debts are only tracked in group chats.")}
		}

		if err != nil {
			return debtsLoadedMsg{err: err}
		}

		return debtsLoadedMsg{body: render.Debts("Debts "+p.Label(), report)}
	}
}

type netResultMsg struct {
	netted int64
	err    error
}

func (m DebtsModel) netCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.balanceService.Net(ctx, m.scope)

		return netResultMsg{netted: n, err: err}
	}
}
