package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalOffset(t *testing.T) {
	vars := map[string]int{"lead_time": 30, "buffer": 5}

	cases := []struct {
		expr string
		want int
	}{
		{"14", 14},
		{"-14", -14},
		{"lead_time", 30},
		{"-lead_time", -30},
		{"lead_time + buffer", 35},
		{"-(lead_time + buffer)", -35},
		{"lead_time * 2", 60},
		{"(lead_time - 10) * 3", 60},
		{"  7  ", 7},
	}
	for _, tc := range cases {
		got, err := EvalOffset(tc.expr, vars)
		require.NoError(t, err, "expr %q", tc.expr)
		assert.Equal(t, tc.want, got, "expr %q", tc.expr)
	}
}

func TestEvalOffset_Errors(t *testing.T) {
	cases := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"undefined variable", "unknown_var"},
		{"unbalanced paren", "(1+2"},
		{"trailing garbage", "1+2)"},
		{"bad character", "1 % 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvalOffset(tc.expr, map[string]int{})
			assert.Error(t, err)
		})
	}
}
