package decfmt

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Floor(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		want      string
	}{
		{0.129, 2, "0.12"},
		{0.123456789, 4, "0.1234"},
		{1.0, 8, "1"},
		{12.0, 8, "12"},
		{123.456, 0, "123"},
		{-0.121, 2, "-0.13"},
		{0.0, 8, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.value, tt.precision, Floor),
			"Format(%v, %d, Floor)", tt.value, tt.precision)
	}
}

func TestFormat_Ceil(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		want      string
	}{
		{0.121, 2, "0.13"},
		{0.123456789, 4, "0.1235"},
		{123.456, 0, "124"},
		{-0.129, 2, "-0.12"},
		{1.0, 8, "1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.value, tt.precision, Ceil),
			"Format(%v, %d, Ceil)", tt.value, tt.precision)
	}
}

func TestFormat_HalfEven(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		want      string
	}{
		{0.125, 2, "0.12"},
		{0.135, 2, "0.14"},
		{1.999999999999, 8, "2"},
		{0.1 + 0.2, 8, "0.3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.value, tt.precision, HalfEven),
			"Format(%v, %d, HalfEven)", tt.value, tt.precision)
	}
}

func TestFormat_NonFinite(t *testing.T) {
	assert.Equal(t, "0", Format(math.NaN(), 8, Floor))
	assert.Equal(t, "0", Format(math.Inf(1), 8, Floor))
	assert.Equal(t, "0", Format(math.Inf(-1), 8, Ceil))
}

func TestFormat_FloorBelowCeil(t *testing.T) {
	values := []float64{0.000000015, 0.1, 1.23456789, 99.999999999, 0.30000000000000004}
	for _, v := range values {
		floor, err := strconv.ParseFloat(Format(v, MaxPrecision, Floor), 64)
		require.NoError(t, err)
		ceil, err := strconv.ParseFloat(Format(v, MaxPrecision, Ceil), 64)
		require.NoError(t, err)

		assert.LessOrEqual(t, floor, v)
		assert.GreaterOrEqual(t, ceil, v)
		assert.Less(t, ceil-floor, math.Pow10(-MaxPrecision)*1.0000001)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	once := Format(0.123456789, 4, Floor)
	twice, err := FormatString(once, 4, Floor)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFormatString(t *testing.T) {
	got, err := FormatString("3.14159", 2, Floor)
	require.NoError(t, err)
	assert.Equal(t, "3.14", got)

	got, err = FormatString("10.000", 8, HalfEven)
	require.NoError(t, err)
	assert.Equal(t, "10", got)
}

func TestFormatString_Invalid(t *testing.T) {
	_, err := FormatString("abc", 2, Floor)
	require.Error(t, err)

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "abc", ferr.Input)
	assert.NotNil(t, ferr.Unwrap())
}

func TestRounding_String(t *testing.T) {
	assert.Equal(t, "floor", Floor.String())
	assert.Equal(t, "ceil", Ceil.String())
	assert.Equal(t, "half-even", HalfEven.String())
	assert.Equal(t, "unknown", Rounding(42).String())
}
