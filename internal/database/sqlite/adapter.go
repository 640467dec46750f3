package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/addtx/internal/database/common"
	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	common.SQLStore
}

func New(usersTable, transactionsTable string, batchSize int) *Adapter {
	return &Adapter{
		SQLStore: common.SQLStore{
			QB:                squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
			UsersTable:        usersTable,
			TransactionsTable: transactionsTable,
			BatchSize:         batchSize,
		},
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	if err := common.ValidateTables(s.UsersTable, s.TransactionsTable); err != nil {
		return err
	}

	dbPath := DSN(url)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// One writer at a time; the whole run is a single transaction.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.DB = db
	return nil
}

// DSN converts a sqlite:// URL into a go-sqlite3 data source name.
func DSN(url string) string {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	return dbPath
}
