package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound   = errors.New("transaction not found")
	ErrNotExpense = errors.New("only expenses carry a category")
	ErrInvalid    = errors.New("invalid transaction")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// User is the chat member who recorded a transaction.
type User struct {
	ID        int64
	Username  string
	FirstName string
}

// DisplayName prefers the username and falls back to the first name.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}

	return u.FirstName
}

// Transaction is a single fill (expense) or income record.
type Transaction struct {
	ID           uuid.UUID
	User         User
	ScopeID      int64
	Type         Type
	Amount       int64 // Amount in base-currency cents
	Description  string
	CategoryCode string // Empty for income
	Date         time.Time
	IsNetted     bool

	// Set when the amount was entered in a currency other than the base one.
	OriginalCurrency string
	OriginalAmount   *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}
