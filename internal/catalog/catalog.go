// Package catalog maps growth action identifiers to point values.
package catalog

import (
	"fmt"
	"strconv"
)

// Catalog resolves an action key to its point value. Implementations return
// 0 for unknown actions; callers treat any value <= 0 as "do not award".
type Catalog interface {
	Points(actionKey string) int
}

// Static is a fixed in-process catalog. It is injected rather than hardcoded
// at the call sites so the mapping can be externalized later without touching
// the ingress path.
type Static map[string]int

var _ Catalog = Static(nil)

// Points returns the configured value for the action, 0 when absent.
func (c Static) Points(actionKey string) int {
	return c[actionKey]
}

// ParseStatic builds a Static catalog from a string-valued map, the shape
// Viper hands back for the GROWTH_ACTIONS setting. Values must parse as
// non-negative integers.
func ParseStatic(raw map[string]string) (Static, error) {
	c := make(Static, len(raw))
	for action, value := range raw {
		points, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid point value %q for action %q: %w", value, action, err)
		}
		if points < 0 {
			return nil, fmt.Errorf("negative point value %d for action %q", points, action)
		}
		c[action] = points
	}
	return c, nil
}
