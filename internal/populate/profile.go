package populate

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/addtx/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_profile.yaml
var defaultProfile []byte

// Upper bounds keep the generator's random ranges inside int64.
const (
	MaxHistoryDays = 36500
	MaxWeight      = 1_000_000
)

var maxAmount = decimal.New(1, 12)

// Profile is the catalog the generator draws categories, merchants and
// amount ranges from.
type Profile struct {
	Currency    string     `yaml:"currency"`
	HistoryDays int        `yaml:"history_days"`
	Categories  []Category `yaml:"categories"`
}

type Category struct {
	Name      string          `yaml:"name"`
	Type      string          `yaml:"type"`
	Weight    int             `yaml:"weight"`
	MinAmount decimal.Decimal `yaml:"min_amount"`
	MaxAmount decimal.Decimal `yaml:"max_amount"`
	Merchants []string        `yaml:"merchants"`
}

// DefaultProfileYAML returns the embedded catalog as written on disk.
func DefaultProfileYAML() []byte {
	out := make([]byte, len(defaultProfile))
	copy(out, defaultProfile)
	return out
}

func DefaultProfile() (*Profile, error) {
	return ParseProfile(defaultProfile)
}

// MustDefaultProfile is DefaultProfile for callers that cannot handle an
// error; it panics if the embedded catalog is invalid.
func MustDefaultProfile() *Profile {
	p, err := DefaultProfile()
	if err != nil {
		panic(fmt.Sprintf("embedded profile: %v", err))
	}
	return p
}

// LoadProfile reads a YAML profile from path, or the embedded default when path is empty.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.HistoryDays == 0 {
		p.HistoryDays = 180
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) Validate() error {
	if len(p.Categories) == 0 {
		return fmt.Errorf("profile has no categories")
	}
	if p.HistoryDays < 1 || p.HistoryDays > MaxHistoryDays {
		return fmt.Errorf("history_days must be between 1 and %d, got %d", MaxHistoryDays, p.HistoryDays)
	}

	for _, c := range p.Categories {
		if c.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if c.Type != models.TypeCredit && c.Type != models.TypeDebit {
			return fmt.Errorf("category %s: unknown type %q", c.Name, c.Type)
		}
		if c.Weight <= 0 || c.Weight > MaxWeight {
			return fmt.Errorf("category %s: weight must be between 1 and %d", c.Name, MaxWeight)
		}
		if c.MinAmount.IsNegative() || c.MinAmount.GreaterThan(c.MaxAmount) {
			return fmt.Errorf("category %s: invalid amount range %s..%s", c.Name, c.MinAmount, c.MaxAmount)
		}
		if c.MaxAmount.GreaterThanOrEqual(maxAmount) {
			return fmt.Errorf("category %s: max_amount must be below %s", c.Name, maxAmount)
		}
		if len(c.Merchants) == 0 {
			return fmt.Errorf("category %s: no merchants", c.Name)
		}
	}
	return nil
}

func (p *Profile) totalWeight() int {
	total := 0
	for _, c := range p.Categories {
		total += c.Weight
	}
	return total
}
