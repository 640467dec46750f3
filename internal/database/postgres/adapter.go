package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/addtx/internal/database/common"
	"github.com/Lumos-Labs-HQ/addtx/internal/models"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type Adapter struct {
	pool              *pgxpool.Pool
	qb                squirrel.StatementBuilderType
	usersTable        string
	transactionsTable string
	batchSize         int
}

func New(usersTable, transactionsTable string, batchSize int) *Adapter {
	return &Adapter{
		qb:                squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		usersTable:        usersTable,
		transactionsTable: transactionsTable,
		batchSize:         batchSize,
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	if err := common.ValidateTables(p.usersTable, p.transactionsTable); err != nil {
		return err
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("not connected")
	}
	return p.pool.Ping(ctx)
}

// users and transactions return the configured table names quoted for PostgreSQL.
func (p *Adapter) users() string {
	return pq.QuoteIdentifier(p.usersTable)
}

func (p *Adapter) transactions() string {
	return pq.QuoteIdentifier(p.transactionsTable)
}

func (p *Adapter) customersSQL() (string, []interface{}, error) {
	return common.CustomersQuery(p.qb, p.users()).ToSql()
}

func (p *Adapter) FetchCustomers(ctx context.Context) ([]models.User, error) {
	query, args, err := p.customersSQL()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
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

func (p *Adapter) CountTransactions(ctx context.Context) (int64, error) {
	query, args, err := common.CountQuery(p.qb, p.transactions()).ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", p.transactionsTable, err)
	}
	return count, nil
}

func (p *Adapter) Begin(ctx context.Context) (common.Session, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &session{adapter: p, tx: tx}, nil
}

type session struct {
	adapter *Adapter
	tx      pgx.Tx
	pending []models.Transaction
	done    bool
}

func (s *session) Add(txns ...models.Transaction) {
	s.pending = append(s.pending, txns...)
}

func (s *session) Pending() int {
	return len(s.pending)
}

func (s *session) Commit(ctx context.Context) error {
	if s.done {
		return pgx.ErrTxClosed
	}

	statements, err := common.BuildInserts(s.adapter.qb, s.adapter.transactions(), s.pending, s.adapter.batchSize)
	if err != nil {
		s.Rollback(ctx)
		return err
	}

	for _, stmt := range statements {
		if _, err := s.tx.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
			s.Rollback(ctx)
			return fmt.Errorf("failed to insert transactions: %w", err)
		}
	}

	s.done = true
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.pending = nil
	return nil
}

func (s *session) Rollback(ctx context.Context) error {
	s.pending = nil
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
