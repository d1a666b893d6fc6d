package util

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`1.5`, 1.5},
		{`"1.5"`, 1.5},
		{`" 42 "`, 42},
		{`""`, 0},
		{`null`, 0},
		{`"-0.0123"`, -0.0123},
	}
	for _, tt := range tests {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(tt.in), &n), tt.in)
		assert.InDelta(t, tt.want, n.Float64(), 1e-12, tt.in)
	}
}

func TestNumberUnmarshalRejectsGarbage(t *testing.T) {
	var n Number
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(1))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(-1)))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitCSV(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitCSV(""))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 3000, ParseIntDefault("", 3000))
	assert.Equal(t, 8080, ParseIntDefault("8080", 3000))
	assert.Equal(t, 3000, ParseIntDefault("x", 3000))
}
