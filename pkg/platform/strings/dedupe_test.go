package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "only blanks", input: []string{"", "  "}, expected: []string{}},
		{name: "keeps first-seen order", input: []string{"view", "staff"}, expected: []string{"view", "staff"}},
		{name: "case-insensitive duplicates", input: []string{" Staff", "view", "STAFF"}, expected: []string{"staff", "view"}},
		{name: "realm roles mixed in", input: []string{"offline_access", "sbc_staff", "offline_access"}, expected: []string{"offline_access", "sbc_staff"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FoldDedupe(tt.input))
		})
	}
}
