package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Period is a predefined or custom reporting period.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodThisYear
	PeriodLastYear
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodThisYear:
		return "This Year"
	case PeriodLastYear:
		return "Last Year"
	case PeriodCustom:
		return "Custom"
	}

	return "Unknown"
}

// Resolve maps a predefined period to a year and its months relative to
// now. A nil month set means the whole year.
func (p Period) Resolve(now time.Time) (int, []time.Month) {
	switch p {
	case PeriodLastMonth:
		last := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		return last.Year(), []time.Month{last.Month()}
	case PeriodThisYear:
		return now.Year(), nil
	case PeriodLastYear:
		return now.Year() - 1, nil
	}

	return now.Year(), []time.Month{now.Month()}
}

// ParsePeriod reads "YYYY" or "YYYY-MM".
func ParsePeriod(s string) (int, []time.Month, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse("2006-01", s); err == nil {
		return t.Year(), []time.Month{t.Month()}, nil
	}

	year, err := strconv.Atoi(s)
	if err != nil || year < 1970 || year > 9999 {
		return 0, nil, fmt.Errorf("invalid period %q (YYYY or YYYY-MM)", s)
	}

	return year, nil, nil
}

// PeriodSelectedMsg is emitted when the user has picked a period.
// Months is nil for a whole year.
type PeriodSelectedMsg struct {
	Year   int
	Months []time.Month
}

func (m PeriodSelectedMsg) Label() string {
	if len(m.Months) == 1 {
		return fmt.Sprintf("%s %d", m.Months[0], m.Year)
	}

	return strconv.Itoa(m.Year)
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker is a reusable component for selecting a reporting period.
type PeriodPicker struct {
	state    periodState
	selected Period
	input    textinput.Model
	err      error
}

func NewPeriodPicker() PeriodPicker {
	in := textinput.New()
	in.Placeholder = "YYYY-MM"
	in.CharLimit = 7
	in.Width = 10
	in.Prompt = "Period: "

	return PeriodPicker{input: in}
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == periodStateCustom {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)

			return m, cmd
		}

		return m, nil
	}

	if m.state == periodStateCustom {
		return m.updateCustom(keyMsg)
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.selected > PeriodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.state = periodStateCustom
			m.input.Focus()

			return m, textinput.Blink
		}

		year, months := m.selected.Resolve(time.Now())

		return m, selectPeriod(year, months)
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = periodStateSelect
		m.err = nil

		return m, nil
	case tea.KeyEnter:
		year, months, err := ParsePeriod(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil

		return m, selectPeriod(year, months)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func selectPeriod(year int, months []time.Month) tea.Cmd {
	return func() tea.Msg {
		return PeriodSelectedMsg{Year: year, Months: months}
	}
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf("Enter a year or a month:\n\n%s\n\n(Enter to confirm, Esc to back)%s", m.input.View(), errStr)
	}

	var b strings.Builder

	b.WriteString("Select Period:\n\n")

	for p := PeriodThisMonth; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, p)
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String() + errStr
}

// IsSelecting reports whether the picker shows the predefined periods.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}

func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.err = nil
	m.input.SetValue("")
	m.input.Blur()
}
