// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from study-program names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	edgeHyphens     = regexp.MustCompile(`^-+|-+$`)
)

// From converts s into a lowercase hyphenated ASCII slug.
//
// Accents are stripped after NFD decomposition ("Teknik Informatika (S1)"
// becomes "teknik-informatika-s1"). Characters without an ASCII base are dropped.
func From(s string) string {
	stripMarks := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))

	result, _, err := transform.String(stripMarks, s)
	if err != nil {
		result = s
	}

	result = nonAlphanumeric.ReplaceAllString(strings.ToLower(result), "-")
	return edgeHyphens.ReplaceAllString(result, "")
}
