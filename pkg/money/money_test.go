package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"1,234,567", 1234567, true},
		{"-45,000", -45000, true},
		{" 100 ", 100, true},
		{"0", 0, true},
		{"", 0, false},
		{"-", 0, false},
		{"abc", 0, false},
		{"12.5", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAmount(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestFormatKRW(t *testing.T) {
	assert.Equal(t, "1.2조", FormatKRW(1_234_000_000_000))
	assert.Equal(t, "5.0억", FormatKRW(500_000_000))
	assert.Equal(t, "1.5만", FormatKRW(15_000))
	assert.Equal(t, "500", FormatKRW(500))
	assert.Equal(t, "0", FormatKRW(0))
}

func TestFormatKRWNegative(t *testing.T) {
	assert.Equal(t, "-1.2조", FormatKRW(-1_234_000_000_000))
	assert.Equal(t, "-5.0억", FormatKRW(-500_000_000))
	assert.Equal(t, "-500", FormatKRW(-500))
}
