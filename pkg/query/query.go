// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query holds helpers for turning list filters into SQL parameters.
package query

import (
	"strings"

	"github.com/taibuivan/lppm/pkg/slice"
)

// StringSlice splits a comma-separated query value into trimmed, non-empty items.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	trimmed := slice.Map(strings.Split(val, ","), strings.TrimSpace)
	return slice.Filter(trimmed, func(item string) bool { return item != "" })
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds an ILIKE pattern matching any value containing term.
// Wildcards inside term are matched literally.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
}
