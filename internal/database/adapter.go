package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/addtx/internal/database/common"
	"github.com/Lumos-Labs-HQ/addtx/internal/models"
)

type Session = common.Session

// Adapter is the application database scope: it finds the customers and
// opens the session their transactions are written through.
type Adapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	FetchCustomers(ctx context.Context) ([]models.User, error)
	CountTransactions(ctx context.Context) (int64, error)
	Begin(ctx context.Context) (Session, error)
}
