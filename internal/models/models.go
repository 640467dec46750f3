package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const RoleCustomer = "customer"

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// User is the subset of the application's user row this tool reads.
type User struct {
	ID       int64
	Email    string
	Role     string
	IsActive bool
}

type Transaction struct {
	ID              uuid.UUID
	UserID          int64
	ReferenceNumber string
	Type            string
	Category        string
	Merchant        string
	Description     string
	Amount          decimal.Decimal
	Currency        string
	Status          string
	CreatedAt       time.Time
}

var transactionColumns = []string{
	"id", "user_id", "reference_number", "transaction_type", "category",
	"merchant", "description", "amount", "currency", "status", "created_at",
}

// TransactionColumns returns the insert column order matching Transaction.Values.
func TransactionColumns() []string {
	cols := make([]string, len(transactionColumns))
	copy(cols, transactionColumns)
	return cols
}

func (t Transaction) Values() []interface{} {
	return []interface{}{
		t.ID.String(),
		t.UserID,
		t.ReferenceNumber,
		t.Type,
		t.Category,
		t.Merchant,
		t.Description,
		t.Amount.StringFixed(2),
		t.Currency,
		t.Status,
		t.CreatedAt.UTC(),
	}
}
