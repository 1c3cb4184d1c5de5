package types

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatScore renders a score as "home-away".
func FormatScore(home, away int) string {
	return strconv.Itoa(home) + "-" + strconv.Itoa(away)
}

// ParseScore parses a "home-away" string written by FormatScore.
func ParseScore(s string) (home, away int, err error) {
	h, a, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidScore, s)
	}
	home, errH := strconv.Atoi(h)
	away, errA := strconv.Atoi(a)
	if errH != nil || errA != nil || home < 0 || away < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidScore, s)
	}
	return home, away, nil
}
