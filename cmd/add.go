package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/addtx/internal/config"
	"github.com/Lumos-Labs-HQ/addtx/internal/database"
	"github.com/Lumos-Labs-HQ/addtx/internal/populate"
	"github.com/Lumos-Labs-HQ/addtx/internal/seeder"
	"github.com/fatih/color"
)

type runOptions struct {
	DryRun bool
	Output io.Writer
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func runAdd(ctx context.Context, cfg *config.Config, args []string, opts runOptions) (*seeder.Summary, error) {
	out := opts.Output
	if out == nil {
		out = color.Output
	}

	rnd := newRand(cfg.Generator.Seed)

	count, warning := seeder.ResolveCount(args, rnd)
	if warning != "" {
		color.New(color.FgYellow).Fprintf(out, "⚠️  %s\n", warning)
	} else if len(args) > 0 {
		fmt.Fprintf(out, "Will add %d transactions per user\n\n", count)
	}

	profile, err := populate.LoadProfile(cfg.Generator.Profile)
	if err != nil {
		return nil, err
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	adapter := database.NewAdapter(cfg)
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer adapter.Close()

	if err := adapter.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	tracker := populate.NewReferenceTracker()
	gen := populate.NewGenerator(rnd, profile, tracker)

	s := seeder.New(adapter, gen, tracker, seeder.WithDryRun(opts.DryRun), seeder.WithOutput(out))
	summary, err := s.Run(ctx, count)
	if err != nil {
		return nil, err
	}

	if summary.Committed {
		if total, err := adapter.CountTransactions(ctx); err == nil {
			color.New(color.FgCyan).Fprintf(out, "📦 %s now holds %d rows\n", cfg.Tables.Transactions, total)
		}
	}
	return summary, nil
}
