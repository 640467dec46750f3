package seeder

import (
	"context"

	"github.com/Lumos-Labs-HQ/addtx/internal/database"
	"github.com/Lumos-Labs-HQ/addtx/internal/models"
)

// Store is the part of the database adapter the seeder needs.
type Store interface {
	FetchCustomers(ctx context.Context) ([]models.User, error)
	Begin(ctx context.Context) (database.Session, error)
}

type Generator interface {
	CreateTransactionsForUser(user models.User, count int) ([]models.Transaction, error)
}

// Tracker is the reference-number registry shared with the generator.
// The seeder only resets it at the start of a run.
type Tracker interface {
	Clear()
}

type Summary struct {
	Users     int
	Requested int   // transactions requested per user
	PerUser   []int // transactions generated, in user order
	Total     int
	Committed bool
}

func (s *Summary) Average() float64 {
	if s.Users == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Users)
}
