package seeder

import (
	"math/rand"
	"strconv"
	"strings"
)

const (
	MinDefaultCount = 10
	MaxDefaultCount = 30
)

// RandomCount draws uniformly from [MinDefaultCount, MaxDefaultCount].
func RandomCount(rnd *rand.Rand) int {
	return MinDefaultCount + rnd.Intn(MaxDefaultCount-MinDefaultCount+1)
}

// ResolveCount reads the per-user count from the first positional argument.
// A missing argument yields a random count; an unparsable or negative one
// yields a random count plus a warning for the user.
func ResolveCount(args []string, rnd *rand.Rand) (count int, warning string) {
	if len(args) == 0 {
		return RandomCount(rnd), ""
	}

	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || n < 0 {
		return RandomCount(rnd), "Invalid number, using random count"
	}
	return n, ""
}
