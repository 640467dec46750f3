package populate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/addtx/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	referencePrefix = "TXN"
	referenceDigits = 12
	// Attempts before giving up on finding a free reference number.
	maxReferenceAttempts = 1000
)

// Generator produces random transactions for a user. Reference numbers are
// checked against the tracker it was built with.
type Generator struct {
	rand    *rand.Rand
	profile *Profile
	tracker *ReferenceTracker
	now     func() time.Time
}

type Option func(*Generator)

// WithClock fixes the reference time transactions are dated back from.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(rnd *rand.Rand, profile *Profile, tracker *ReferenceTracker, opts ...Option) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if tracker == nil {
		tracker = NewReferenceTracker()
	}
	if profile == nil {
		profile = MustDefaultProfile()
	}

	g := &Generator{
		rand:    rnd,
		profile: profile,
		tracker: tracker,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Tracker() *ReferenceTracker {
	return g.tracker
}

// CreateTransactionsForUser returns exactly count new transactions owned by user.
func (g *Generator) CreateTransactionsForUser(user models.User, count int) ([]models.Transaction, error) {
	if count <= 0 {
		return []models.Transaction{}, nil
	}

	txns := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		txn, err := g.generate(user)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", user.ID, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (g *Generator) generate(user models.User) (models.Transaction, error) {
	ref, err := g.referenceNumber()
	if err != nil {
		return models.Transaction{}, err
	}

	category := g.pickCategory()
	merchant := category.Merchants[g.rand.Intn(len(category.Merchants))]

	return models.Transaction{
		ID:              uuid.New(),
		UserID:          user.ID,
		ReferenceNumber: ref,
		Type:            category.Type,
		Category:        category.Name,
		Merchant:        merchant,
		Description:     fmt.Sprintf("%s - %s", category.Name, merchant),
		Amount:          g.amount(category),
		Currency:        g.profile.Currency,
		Status:          g.status(),
		CreatedAt:       g.timestamp(),
	}, nil
}

func (g *Generator) referenceNumber() (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref := referencePrefix
		for i := 0; i < referenceDigits; i++ {
			ref += string(rune('0' + g.rand.Intn(10)))
		}
		if g.tracker.Claim(ref) {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no free reference number after %d attempts", maxReferenceAttempts)
}

func (g *Generator) pickCategory() Category {
	n := g.rand.Intn(g.profile.totalWeight())
	for _, c := range g.profile.Categories {
		if n < c.Weight {
			return c
		}
		n -= c.Weight
	}
	return g.profile.Categories[len(g.profile.Categories)-1]
}

// amount draws uniformly from the category range in whole cents.
func (g *Generator) amount(c Category) decimal.Decimal {
	minCents := c.MinAmount.Shift(2).IntPart()
	maxCents := c.MaxAmount.Shift(2).IntPart()
	cents := minCents
	if maxCents > minCents {
		cents += g.rand.Int63n(maxCents - minCents + 1)
	}
	return decimal.New(cents, -2)
}

func (g *Generator) status() string {
	switch n := g.rand.Intn(100); {
	case n < 90:
		return models.StatusCompleted
	case n < 97:
		return models.StatusPending
	default:
		return models.StatusFailed
	}
}

func (g *Generator) timestamp() time.Time {
	window := time.Duration(g.profile.HistoryDays) * 24 * time.Hour
	offset := time.Duration(g.rand.Int63n(int64(window)))
	return g.now().Add(-offset).Truncate(time.Second)
}
