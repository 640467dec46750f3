package seeder

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

type Seeder struct {
	store   Store
	gen     Generator
	tracker Tracker
	dryRun  bool
	out     io.Writer
}

type Option func(*Seeder)

// WithDryRun makes Run roll the session back instead of committing it.
func WithDryRun(dryRun bool) Option {
	return func(s *Seeder) {
		s.dryRun = dryRun
	}
}

func WithOutput(w io.Writer) Option {
	return func(s *Seeder) {
		s.out = w
	}
}

func New(store Store, gen Generator, tracker Tracker, opts ...Option) *Seeder {
	s := &Seeder{
		store:   store,
		gen:     gen,
		tracker: tracker,
		out:     color.Output,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run adds count generated transactions to every active customer and
// writes them all in one commit.
func (s *Seeder) Run(ctx context.Context, count int) (*Summary, error) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	users, err := s.store.FetchCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}

	summary := &Summary{Users: len(users), Requested: count}

	if len(users) == 0 {
		color.New(color.FgRed).Fprintln(s.out, "❌ No users found in database")
		return summary, nil
	}

	cyan.Fprintf(s.out, "Found %d users\n", len(users))
	cyan.Fprintf(s.out, "Adding %d transactions per user...\n\n", count)

	session, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}

	s.tracker.Clear()

	summary.PerUser = make([]int, 0, len(users))
	for i, user := range users {
		txns, err := s.gen.CreateTransactionsForUser(user, count)
		if err != nil {
			session.Rollback(ctx)
			return nil, fmt.Errorf("failed to generate transactions for %s: %w", user.Email, err)
		}

		session.Add(txns...)
		summary.PerUser = append(summary.PerUser, len(txns))
		summary.Total += len(txns)

		green.Fprintf(s.out, "✓ User %d/%d: Added %d transactions for %s\n", i+1, len(users), len(txns), user.Email)
	}

	if s.dryRun {
		if err := session.Rollback(ctx); err != nil {
			return nil, fmt.Errorf("failed to roll back dry run: %w", err)
		}
		yellow.Fprintf(s.out, "\n🔄 Dry run: rolled back %d transactions\n", summary.Total)
		cyan.Fprintf(s.out, "📊 Average: %.1f transactions per user\n", summary.Average())
		return summary, nil
	}

	if err := session.Commit(ctx); err != nil {
		if rbErr := session.Rollback(ctx); rbErr != nil {
			return nil, fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return nil, err
	}
	summary.Committed = true

	green.Fprintf(s.out, "\n✅ Successfully added %d total transactions!\n", summary.Total)
	cyan.Fprintf(s.out, "📊 Average: %.1f transactions per user\n", summary.Average())
	return summary, nil
}
