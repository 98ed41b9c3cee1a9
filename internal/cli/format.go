// Package cli provides formatting and rendering utilities for terminal
// output.
package cli

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// FormatAmount formats a monetary value (rate, turnover, cost) with two
// decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatDate formats a calendar date as ISO 8601 (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses a strictly formatted YYYY-MM-DD date argument.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in format YYYY-MM-DD: %q", s)
	}
	return t, nil
}

// IDSuffix returns the integer part of an entity ID such as "CLT45" or
// "USR123". IDs that don't follow the prefix+integer form sort after all
// well-formed ones.
func IDSuffix(id string) int {
	i := 0
	for i < len(id) && (id[i] < '0' || id[i] > '9') {
		i++
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// SortByID sorts entities in numeric-suffix order of their IDs, so
// "CLT9" comes before "CLT10".
func SortByID[T any](items []T, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return IDSuffix(id(items[i])) < IDSuffix(id(items[j]))
	})
}

// Contains reports whether needle is one of the given values. Used for
// repeatable CLI filter flags.
func Contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
