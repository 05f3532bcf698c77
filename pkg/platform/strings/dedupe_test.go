package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil stays nil", input: nil, expected: nil},
		{name: "empty stays empty", input: []string{}, expected: []string{}},
		{
			name:     "repeated condition rendered once",
			input:    []string{"reaches age 25", " reaches age 25 ", "completes university"},
			expected: []string{"reaches age 25", "completes university"},
		},
		{
			name:     "blank entries dropped",
			input:    []string{"", "   ", "survives the testator by 30 days"},
			expected: []string{"survives the testator by 30 days"},
		},
		{
			name:     "all blank",
			input:    []string{" ", "\t"},
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
