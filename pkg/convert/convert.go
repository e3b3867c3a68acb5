// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert turns query-string values into typed filters.

Malformed input never fails a request here: integers fall back to a
caller-supplied default and booleans become "not filtered". Use [strconv]
directly when a malformed value must be reported to the client.
*/
package convert

import (
	"strconv"
	"strings"
)

// IntOr parses s as a base-10 integer, returning fallback when s is empty or malformed.
func IntOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}

// OptionalBool parses a tri-state boolean: nil when s is empty or not one of
// the forms [strconv.ParseBool] accepts.
func OptionalBool(s string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}
