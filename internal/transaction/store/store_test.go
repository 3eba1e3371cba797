package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

var cet = time.FixedZone("CET", 60*60)

func TestPeriod(t *testing.T) {
	type testCase struct {
		name   string
		months []time.Month
		want   [][2]time.Time
	}

	day := func(y int, m time.Month) time.Time {
		return time.Date(y, m, 1, 0, 0, 0, 0, cet)
	}

	tests := []testCase{
		{
			name: "WholeYear",
			want: [][2]time.Time{{day(2025, time.January), day(2026, time.January)}},
		},
		{
			name:   "SingleMonth",
			months: []time.Month{time.March},
			want:   [][2]time.Time{{day(2025, time.March), day(2025, time.April)}},
		},
		{
			name:   "AdjacentMonthsMerged",
			months: []time.Month{time.February, time.January, time.May},
			want: [][2]time.Time{
				{day(2025, time.January), day(2025, time.March)},
				{day(2025, time.May), day(2025, time.June)},
			},
		},
		{
			name:   "December",
			months: []time.Month{time.December, time.December},
			want:   [][2]time.Time{{day(2025, time.December), day(2026, time.January)}},
		},
		{
			name:   "OutOfRangeMonths",
			months: []time.Month{0, 13},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, period(2025, tt.months, cet))
		})
	}
}

func TestListQuery_MonthsUseLedgerCalendar(t *testing.T) {
	query, args := listQuery(transaction.ListFilter{
		ScopeIDs: []int64{1},
		Year:     2025,
		Months:   []time.Month{time.March},
	}, cet)

	assert.Contains(t, query, "(t.date >= $2 AND t.date < $3)")
	assert.NotContains(t, query, "EXTRACT")
	require.Len(t, args, 3)

	start, end := args[1].(time.Time), args[2].(time.Time)

	// 00:30 on March 1st in the ledger zone is still February in UTC.
	boundary := time.Date(2025, time.February, 28, 23, 30, 0, 0, time.UTC)
	assert.False(t, boundary.Before(start))
	assert.True(t, boundary.Before(end))

	lastFebruary := time.Date(2025, time.February, 28, 22, 59, 0, 0, time.UTC)
	assert.True(t, lastFebruary.Before(start))
}

func TestListQuery_Filters(t *testing.T) {
	userID := int64(42)

	query, args := listQuery(transaction.ListFilter{
		UserID:    &userID,
		Type:      new(transaction.TypeExpense),
		NotNetted: true,
	}, cet)

	assert.Contains(t, query, "t.user_id = $1")
	assert.Contains(t, query, "t.type = $2")
	assert.Contains(t, query, "NOT t.is_netted")
	assert.NotContains(t, query, "t.date >=")
	assert.Equal(t, []any{userID, transaction.TypeExpense}, args)

	query, args = listQuery(transaction.ListFilter{Year: 2025, Months: []time.Month{13}}, cet)
	assert.Contains(t, query, "AND FALSE")
	assert.Empty(t, args)
}

// dateRow fills only the date column of selectTransactionColumns.
type dateRow struct {
	date time.Time
}

func (r dateRow) Scan(dest ...any) error {
	*dest[9].(*time.Time) = r.date

	return nil
}

func TestScanTransaction_DateInLedgerZone(t *testing.T) {
	tx, err := scanTransaction(dateRow{date: time.Date(2025, time.February, 28, 23, 30, 0, 0, time.UTC)}, cet)
	require.NoError(t, err)

	assert.Equal(t, time.March, tx.Date.Month())
	assert.Equal(t, 1, tx.Date.Day())
	assert.Equal(t, cet, tx.Date.Location())
}

func TestDayStart(t *testing.T) {
	got := dayStart(time.Date(2025, time.February, 28, 23, 30, 0, 0, time.UTC), cet)

	assert.Equal(t, "2025-03-01T00:00:00+01:00", got.Format(time.RFC3339))
}
