package report

import (
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
)

type userResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type thresholdResponse struct {
	Amount int64         `json:"amount"`
	Limit  *int64        `json:"limit"`
	Status budget.Status `json:"status"`
}

type categoryResponse struct {
	Code    string            `json:"code"`
	Name    string            `json:"name"`
	Icon    string            `json:"icon,omitempty"`
	Amount  int64             `json:"amount"`
	Month   thresholdResponse `json:"month"`
	Quarter thresholdResponse `json:"quarter"`
	Year    thresholdResponse `json:"year"`
}

type monthResponse struct {
	Month       time.Month              `json:"month"`
	Total       int64                   `json:"total"`
	Users       []userResponse          `json:"users"`
	Categories  []categoryResponse      `json:"categories"`
	Income      []userResponse          `json:"income"`
	Proportions *proportion.Proportions `json:"proportions,omitempty"`
}

type monthlyResponse struct {
	ScopeID int64           `json:"scope_id"`
	Year    int             `json:"year"`
	Months  []monthResponse `json:"months"`
}

type yearlyResponse struct {
	ScopeID     int64                   `json:"scope_id"`
	Year        int                     `json:"year"`
	Total       int64                   `json:"total"`
	Users       []userResponse          `json:"users"`
	Categories  []categoryResponse      `json:"categories"`
	Income      []userResponse          `json:"income"`
	Proportions *proportion.Proportions `json:"proportions,omitempty"`
}

func toUsers(sums []report.UserSum) []userResponse {
	resp := make([]userResponse, 0, len(sums))
	for _, us := range sums {
		resp = append(resp, userResponse{ID: us.User.ID, Name: us.User.DisplayName(), Amount: us.Amount})
	}

	return resp
}

func toThreshold(th budget.Threshold) thresholdResponse {
	return thresholdResponse{Amount: th.Amount, Limit: th.Limit, Status: th.Status()}
}

func toCategories(lines []overview.CategoryLine) []categoryResponse {
	resp := make([]categoryResponse, 0, len(lines))
	for _, l := range lines {
		c := l.Sum.Category
		resp = append(resp, categoryResponse{
			Code:    c.Code,
			Name:    c.Name,
			Icon:    c.Icon,
			Amount:  l.Sum.Amount,
			Month:   toThreshold(l.Usage.Month),
			Quarter: toThreshold(l.Usage.Quarter),
			Year:    toThreshold(l.Usage.Year),
		})
	}

	return resp
}

func toMonthly(m *overview.Monthly) monthlyResponse {
	resp := monthlyResponse{
		ScopeID: m.Scope.ID,
		Year:    m.Year,
		Months:  make([]monthResponse, 0, len(m.Months)),
	}

	for _, mo := range m.Months {
		resp.Months = append(resp.Months, monthResponse{
			Month:       mo.Month,
			Total:       mo.Total,
			Users:       toUsers(mo.Users),
			Categories:  toCategories(mo.Categories),
			Income:      toUsers(mo.Income),
			Proportions: mo.Proportions,
		})
	}

	return resp
}

func toYearly(y *overview.Yearly) yearlyResponse {
	return yearlyResponse{
		ScopeID:     y.Scope.ID,
		Year:        y.Year,
		Total:       y.Total,
		Users:       toUsers(y.Users),
		Categories:  toCategories(y.Categories),
		Income:      toUsers(y.Income),
		Proportions: y.Proportions,
	}
}
