package common

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Lumos-Labs-HQ/addtx/internal/models"
	"github.com/Masterminds/squirrel"
)

// validIdentifier validates SQL identifiers (table/column names) to prevent SQL injection
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const DefaultBatchSize = 500

// Session queues generated transactions inside one open database
// transaction and writes them all on Commit.
type Session interface {
	Add(txns ...models.Transaction)
	Pending() int
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

func ValidateTables(users, transactions string) error {
	if !IsValidIdentifier(users) {
		return fmt.Errorf("invalid users table name: %q", users)
	}
	if !IsValidIdentifier(transactions) {
		return fmt.Errorf("invalid transactions table name: %q", transactions)
	}
	return nil
}

// CustomersQuery selects active customers in primary key order.
func CustomersQuery(qb squirrel.StatementBuilderType, usersTable string) squirrel.SelectBuilder {
	return qb.Select("id", "email", "role", "is_active").
		From(usersTable).
		Where(squirrel.Eq{"role": models.RoleCustomer, "is_active": true}).
		OrderBy("id")
}

func CountQuery(qb squirrel.StatementBuilderType, table string) squirrel.SelectBuilder {
	return qb.Select("COUNT(*)").From(table)
}

// InsertStatement is one multi-row INSERT ready to execute.
type InsertStatement struct {
	SQL  string
	Args []interface{}
	Rows int
}

// BuildInserts splits txns into multi-row INSERTs of at most batchSize rows.
func BuildInserts(qb squirrel.StatementBuilderType, table string, txns []models.Transaction, batchSize int) ([]InsertStatement, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	columns := models.TransactionColumns()
	statements := make([]InsertStatement, 0, (len(txns)+batchSize-1)/batchSize)

	for start := 0; start < len(txns); start += batchSize {
		end := start + batchSize
		if end > len(txns) {
			end = len(txns)
		}

		insert := qb.Insert(table).Columns(columns...)
		for _, txn := range txns[start:end] {
			insert = insert.Values(txn.Values()...)
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build insert: %w", err)
		}
		statements = append(statements, InsertStatement{SQL: sql, Args: args, Rows: end - start})
	}

	return statements, nil
}
