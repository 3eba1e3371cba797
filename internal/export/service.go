// Package export writes a scope's ledger for one year as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

const (
	SheetTransactions = "Transactions"
	SheetCategories   = "Categories"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export
type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, scopeIDs []int64, year int, months []time.Month) (*report.Summary, error)
}

// Service builds spreadsheet exports of the ledger.
type Service struct {
	transactions TransactionLister
	summarizer   Summarizer
}

func NewService(transactions TransactionLister, summarizer Summarizer) *Service {
	return &Service{transactions: transactions, summarizer: summarizer}
}

// Export writes every transaction of year across the scope's report set,
// followed by a per-category month grid, to w.
func (s *Service) Export(ctx context.Context, sc *scope.Scope, year int, w io.Writer) error {
	ids := sc.Expand()

	txs, err := s.transactions.List(ctx, transaction.ListFilter{ScopeIDs: ids, Year: year})
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	summary, err := s.summarizer.Summarize(ctx, ids, year, nil)
	if err != nil {
		return fmt.Errorf("summarizing year: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeTransactions(f, styles, txs); err != nil {
		return fmt.Errorf("writing transactions sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetCategories); err != nil {
		return fmt.Errorf("creating categories sheet: %w", err)
	}

	if err := writeCategories(f, styles, summary); err != nil {
		return fmt.Errorf("writing categories sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

type styles struct {
	header int
	money  int
	date   int
	total  int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		st  styles
		err error
	)

	if st.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, fmt.Errorf("creating header style: %w", err)
	}

	// 4 is the built-in "#,##0.00" format.
	if st.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return st, fmt.Errorf("creating money style: %w", err)
	}

	if st.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: new("yyyy-mm-dd")}); err != nil {
		return st, fmt.Errorf("creating date style: %w", err)
	}

	if st.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4}); err != nil {
		return st, fmt.Errorf("creating total style: %w", err)
	}

	return st, nil
}

func money(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

var transactionHeaders = []any{
	"Date", "User", "Type", "Category", "Description", "Amount", "Original currency", "Original amount", "Netted",
}

func writeTransactions(f *excelize.File, st styles, txs []*transaction.Transaction) error {
	sheet := SheetTransactions

	if err := f.SetSheetRow(sheet, "A1", &transactionHeaders); err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "A1", cell(len(transactionHeaders), 1), st.header); err != nil {
		return err
	}

	var expenses, income int64

	row := 2

	for _, tx := range txs {
		var original any
		if tx.OriginalAmount != nil {
			original = tx.OriginalAmount.InexactFloat64()
		}

		netted := "no"
		if tx.IsNetted {
			netted = "yes"
		}

		values := []any{
			tx.Date, tx.User.DisplayName(), string(tx.Type), tx.CategoryCode, tx.Description,
			money(tx.Amount), tx.OriginalCurrency, original, netted,
		}

		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return err
		}

		if tx.Type == transaction.TypeExpense {
			expenses += tx.Amount
		} else {
			income += tx.Amount
		}

		row++
	}

	if row > 2 {
		if err := f.SetCellStyle(sheet, "A2", cell(1, row-1), st.date); err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet, cell(6, 2), cell(6, row-1), st.money); err != nil {
			return err
		}
	}

	totals := [][]any{
		{"Total expenses", nil, nil, nil, nil, money(expenses)},
		{"Total income", nil, nil, nil, nil, money(income)},
	}

	for _, values := range totals {
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet, cell(1, row), cell(6, row), st.total); err != nil {
			return err
		}

		row++
	}

	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "E", "E", 40)
}

func writeCategories(f *excelize.File, st styles, summary *report.Summary) error {
	sheet := SheetCategories

	headers := []any{"Code", "Name"}
	for _, m := range report.AllMonths() {
		headers = append(headers, m.String()[:3])
	}

	headers = append(headers, "Year")

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "A1", cell(len(headers), 1), st.header); err != nil {
		return err
	}

	var totals [12]int64

	row := 2

	for _, cs := range summary.Categories {
		values := []any{cs.Category.Code, cs.Category.Name}

		for i, m := range report.AllMonths() {
			values = append(values, money(cs.Month(m)))
			totals[i] += cs.Month(m)
		}

		values = append(values, money(cs.Year()))

		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return err
		}

		row++
	}

	if row > 2 {
		if err := f.SetCellStyle(sheet, cell(3, 2), cell(len(headers), row-1), st.money); err != nil {
			return err
		}
	}

	totalRow := []any{"Total", nil}

	var year int64

	for _, t := range totals {
		totalRow = append(totalRow, money(t))
		year += t
	}

	totalRow = append(totalRow, money(year))

	if err := f.SetSheetRow(sheet, cell(1, row), &totalRow); err != nil {
		return err
	}

	return f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), st.total)
}
