package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "zero", amount: "0", expected: "0.00"},
		{name: "below a thousand", amount: "999.5", expected: "999.50"},
		{name: "thousands", amount: "17000", expected: "17,000.00"},
		{name: "millions", amount: "1234567.891", expected: "1,234,567.89"},
		{name: "rounds half away from zero", amount: "0.005", expected: "0.01"},
		{name: "negative", amount: "-12345.6", expected: "-12,345.60"},
		{name: "negative rounding to zero", amount: "-0.001", expected: "0.00"},
		{name: "exact group boundary", amount: "100000", expected: "100,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, FormatMoney(amount))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "42", FormatCount(42))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "12,345,678", FormatCount(12345678))
	assert.Equal(t, "-1,500", FormatCount(-1500))
}

func TestFloorZero(t *testing.T) {
	assert.True(t, FloorZero(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, FloorZero(decimal.NewFromInt(5)).Equal(decimal.NewFromInt(5)))
}

func TestAverage(t *testing.T) {
	assert.True(t, Average(decimal.NewFromInt(17000), 2).Equal(decimal.NewFromInt(8500)))
	assert.Equal(t, "33.33", Average(decimal.NewFromInt(100), 3).String())
	assert.True(t, Average(decimal.NewFromInt(100), 0).IsZero())
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 8500.0, ToFloat(decimal.NewFromInt(8500)))
	assert.Equal(t, 0.1, ToFloat(decimal.RequireFromString("0.1")))
	assert.Equal(t, 2.68, ToFloat(decimal.RequireFromString("2.675")))
}

func TestDaysAgoLabel(t *testing.T) {
	assert.Equal(t, "0 days ago", DaysAgoLabel(0))
	assert.Equal(t, "12 days ago", DaysAgoLabel(12))
	assert.Equal(t, "In 3 days", DaysAgoLabel(-3))
}
