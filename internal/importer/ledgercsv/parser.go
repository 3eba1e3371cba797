// Package ledgercsv reads CSV dumps of a ledger, either exported by this
// service or taken from the tables of the older chat bot.
package ledgercsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/fillbook/internal/encoding"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02 15:04:05.999999",
	"02.01.2006",
	"02.01.2006 15:04",
	"02-01-2006",
}

type Parser struct {
	loc *time.Location
}

// NewParser returns a parser that reads zone-less dates in loc.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}

	return &Parser{loc: loc}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching ledger format found: expected a ledger, card_fill or income header")
	}

	return p.parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// sniffDelimiter picks ';' or ',' by counting them on the first line.
func sniffDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(line, []byte(",")) > bytes.Count(line, []byte(";")) {
		return ','
	}

	return ';'
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// cell returns the trimmed value of column name, or "" when the profile or
// the row does not have it.
func (c colIndex) cell(row []string, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func (p *Parser) parseRows(prof *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	var params []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if blank(row) {
			continue
		}

		cp, err := p.parseRow(prof, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params = append(params, cp)
	}

	return params, nil
}

func (p *Parser) parseRow(prof *Profile, cols colIndex, row []string) (transaction.CreateParams, error) {
	var cp transaction.CreateParams

	date, err := p.parseDate(cols.cell(row, prof.DateCol))
	if err != nil {
		return cp, err
	}

	userID, err := strconv.ParseInt(cols.cell(row, prof.UserCol), 10, 64)
	if err != nil || userID == 0 {
		return cp, fmt.Errorf("invalid user id %q", cols.cell(row, prof.UserCol))
	}

	amount, err := parseAmount(cols.cell(row, prof.AmountCol))
	if err != nil {
		return cp, fmt.Errorf("invalid amount %q", cols.cell(row, prof.AmountCol))
	}

	if !amount.IsPositive() {
		return cp, fmt.Errorf("amount must be positive, got %s", amount)
	}

	typ := prof.FixedType
	if prof.TypeCol != "" {
		typ = transaction.Type(strings.ToLower(cols.cell(row, prof.TypeCol)))
		if !typ.Valid() {
			return cp, fmt.Errorf("invalid type %q", cols.cell(row, prof.TypeCol))
		}
	}

	cp = transaction.CreateParams{
		User:        transaction.User{ID: userID, Username: cols.cell(row, prof.UsernameCol)},
		Type:        typ,
		Amount:      amount,
		Currency:    strings.ToUpper(cols.cell(row, prof.CurrencyCol)),
		Description: cols.cell(row, prof.DescCol),
		Date:        date,
	}

	if typ == transaction.TypeExpense {
		cp.CategoryCode = strings.ToUpper(cols.cell(row, prof.CategoryCol))
	}

	return cp, nil
}

func (p *Parser) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
