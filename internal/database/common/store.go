package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/addtx/internal/models"
	"github.com/Masterminds/squirrel"
)

// SQLStore implements the customer query and session handling on top of
// database/sql. The MySQL and SQLite adapters embed it.
type SQLStore struct {
	DB                *sql.DB
	QB                squirrel.StatementBuilderType
	UsersTable        string
	TransactionsTable string
	BatchSize         int
}

func (s *SQLStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("not connected")
	}
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) FetchCustomers(ctx context.Context) ([]models.User, error) {
	query, args, err := CustomersQuery(s.QB, s.UsersTable).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLStore) CountTransactions(ctx context.Context) (int64, error) {
	query, args, err := CountQuery(s.QB, s.TransactionsTable).ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", s.TransactionsTable, err)
	}
	return count, nil
}

func (s *SQLStore) Begin(ctx context.Context) (Session, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlSession{store: s, tx: tx}, nil
}

type sqlSession struct {
	store   *SQLStore
	tx      *sql.Tx
	pending []models.Transaction
	done    bool
}

func (s *sqlSession) Add(txns ...models.Transaction) {
	s.pending = append(s.pending, txns...)
}

func (s *sqlSession) Pending() int {
	return len(s.pending)
}

func (s *sqlSession) Commit(ctx context.Context) error {
	if s.done {
		return sql.ErrTxDone
	}

	statements, err := BuildInserts(s.store.QB, s.store.TransactionsTable, s.pending, s.store.BatchSize)
	if err != nil {
		s.Rollback(ctx)
		return err
	}

	for _, stmt := range statements {
		if _, err := s.tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			s.Rollback(ctx)
			return fmt.Errorf("failed to insert transactions: %w", err)
		}
	}

	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.pending = nil
	return nil
}

func (s *sqlSession) Rollback(ctx context.Context) error {
	s.pending = nil
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
