package database

import (
	"github.com/Lumos-Labs-HQ/addtx/internal/config"
	"github.com/Lumos-Labs-HQ/addtx/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/addtx/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/addtx/internal/database/sqlite"
)

func NewAdapter(cfg *config.Config) Adapter {
	users, txns, batch := cfg.Tables.Users, cfg.Tables.Transactions, cfg.BatchSize

	switch cfg.Database.Provider {
	case "postgresql", "postgres":
		return postgres.New(users, txns, batch)
	case "mysql":
		return mysql.New(users, txns, batch)
	case "sqlite", "sqlite3":
		return sqlite.New(users, txns, batch)
	default:
		return postgres.New(users, txns, batch)
	}
}
