// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Lenient amount parsing matching what intake forms produce
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// parseAmount parses a monetary CLI argument leniently: commas, a leading
// rupee sign, and decimal notation are accepted; the result truncates to
// whole minor units.
func parseAmount(raw string) (int64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return int64(f), nil
}
