package version

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultLegacyCutoff is the last release without a generic numeric criteria
// progress field. Versions at or below it are legacy.
const DefaultLegacyCutoff = "1.6.4"

// Game is a game version string such as "1.16.1" or "25w14craftmine".
//
// Dotted numeric versions are ordered numerically. Anything else (snapshots,
// april fools builds) sorts after every release and is never legacy.
type Game struct {
	raw    string
	parts  []int
	legacy bool
}

// ParseGame parses s using DefaultLegacyCutoff.
func ParseGame(s string) (Game, error) {
	return ParseGameWithCutoff(s, DefaultLegacyCutoff)
}

// MustParseGame is ParseGame that panics on error. Use only with constants.
func MustParseGame(s string) Game {
	g, err := ParseGame(s)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseGameWithCutoff parses s and classifies it against cutoff.
func ParseGameWithCutoff(s, cutoff string) (Game, error) {
	g, err := parseGame(s)
	if err != nil {
		return Game{}, err
	}
	c, err := parseGame(cutoff)
	if err != nil {
		return Game{}, fmt.Errorf("legacy cutoff: %w", err)
	}
	g.legacy = g.parts != nil && c.parts != nil && g.Compare(c) <= 0
	return g, nil
}

func parseGame(s string) (Game, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Game{}, fmt.Errorf("game version is empty")
	}
	for _, r := range s {
		ok := r == '.' || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return Game{}, fmt.Errorf("game version %q contains invalid character %q", s, r)
		}
	}

	g := Game{raw: s}
	fields := strings.Split(s, ".")
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			// not a plain release number
			return g, nil
		}
		parts = append(parts, n)
	}
	g.parts = parts
	return g, nil
}

// String returns the version as written, e.g. "1.16.1".
func (g Game) String() string {
	return g.raw
}

// Underscored returns the version with dots replaced, as used in template
// file names: "1.16.1" becomes "1_16_1".
func (g Game) Underscored() string {
	return strings.ReplaceAll(g.raw, ".", "_")
}

// IsLegacy reports whether the version is at or below the legacy cutoff.
func (g Game) IsLegacy() bool {
	return g.legacy
}

// IsRelease reports whether the version is a plain dotted release number.
func (g Game) IsRelease() bool {
	return g.parts != nil
}

// IsZero reports whether g was never parsed.
func (g Game) IsZero() bool {
	return g.raw == ""
}

// Compare returns -1, 0 or 1. Non-release versions sort after releases and
// among themselves by string.
func (g Game) Compare(o Game) int {
	switch {
	case g.parts == nil && o.parts == nil:
		return strings.Compare(g.raw, o.raw)
	case g.parts == nil:
		return 1
	case o.parts == nil:
		return -1
	}
	n := len(g.parts)
	if len(o.parts) > n {
		n = len(o.parts)
	}
	for i := 0; i < n; i++ {
		a, b := partAt(g.parts, i), partAt(o.parts, i)
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

func partAt(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}
