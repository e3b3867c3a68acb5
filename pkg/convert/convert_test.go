// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lppm/pkg/convert"
)

func TestIntOr(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 7},
		{"42", 42},
		{" 2026 ", 2026},
		{"-3", -3},
		{"abc", 7},
		{"1.5", 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, convert.IntOr(tt.in, 7), tt.in)
	}
}

func TestOptionalBool(t *testing.T) {
	assert.Nil(t, convert.OptionalBool(""))
	assert.Nil(t, convert.OptionalBool("maybe"))

	if v := convert.OptionalBool("true"); assert.NotNil(t, v) {
		assert.True(t, *v)
	}
	if v := convert.OptionalBool("0"); assert.NotNil(t, v) {
		assert.False(t, *v)
	}
}
