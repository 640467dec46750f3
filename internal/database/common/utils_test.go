package common

import (
	"strings"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/addtx/internal/models"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionQB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func sampleTransactions(n int) []models.Transaction {
	txns := make([]models.Transaction, n)
	for i := range txns {
		txns[i] = models.Transaction{
			ID:              uuid.New(),
			UserID:          int64(i + 1),
			ReferenceNumber: "TXN00000000000" + string(rune('0'+i%10)),
			Type:            models.TypeDebit,
			Category:        "Groceries",
			Merchant:        "Kroger",
			Description:     "Groceries - Kroger",
			Amount:          decimal.New(1999, -2),
			Currency:        "USD",
			Status:          models.StatusCompleted,
			CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
	}
	return txns
}

func TestIsValidIdentifier(t *testing.T) {
	assert.True(t, IsValidIdentifier("users"))
	assert.True(t, IsValidIdentifier("_bank_transactions2"))
	assert.False(t, IsValidIdentifier("users;drop"))
	assert.False(t, IsValidIdentifier("9users"))
	assert.False(t, IsValidIdentifier(""))

	assert.NoError(t, ValidateTables("users", "transactions"))
	assert.Error(t, ValidateTables("users", "tx-log"))
}

func TestCustomersQuery(t *testing.T) {
	sql, args, err := CustomersQuery(questionQB, "users").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, email, role, is_active FROM users WHERE is_active = ? AND role = ? ORDER BY id", sql)
	assert.Equal(t, []interface{}{true, "customer"}, args)
}

func TestBuildInsertsChunks(t *testing.T) {
	txns := sampleTransactions(7)

	statements, err := BuildInserts(questionQB, "transactions", txns, 3)
	require.NoError(t, err)
	require.Len(t, statements, 3)

	cols := len(models.TransactionColumns())
	wantRows := []int{3, 3, 1}
	for i, stmt := range statements {
		assert.Equal(t, wantRows[i], stmt.Rows)
		assert.Len(t, stmt.Args, wantRows[i]*cols)
		assert.True(t, strings.HasPrefix(stmt.SQL, "INSERT INTO transactions (id,user_id,reference_number,"), stmt.SQL)
		assert.Equal(t, wantRows[i], strings.Count(stmt.SQL, "(?,"))
	}

	assert.Equal(t, txns[0].ID.String(), statements[0].Args[0])
	assert.Equal(t, "19.99", statements[0].Args[7])
}

func TestBuildInsertsEmptyAndDefaultBatch(t *testing.T) {
	statements, err := BuildInserts(questionQB, "transactions", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, statements)

	statements, err = BuildInserts(questionQB, "transactions", sampleTransactions(3), 0)
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, 3, statements[0].Rows)
}
