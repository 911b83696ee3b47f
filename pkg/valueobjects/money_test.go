package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "whole amount", input: "25", want: 2500},
		{name: "two decimals", input: "12.34", want: 1234},
		{name: "one decimal", input: "0.5", want: 50},
		{name: "sub-cent truncated down", input: "10.999", want: 1099},
		{name: "sub-cent only", input: "0.009", want: 0},
		{name: "negative truncated toward zero", input: "-10.999", want: -1099},
		{name: "zero", input: "0.00", want: 0},
		{name: "leading whitespace", input: " 3.10", want: 310},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "not a number", input: "ten", wantErr: true},
		{name: "double decimal point", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.MinorUnits())
		})
	}
}

func TestParsePositiveMoney(t *testing.T) {
	m, err := ParsePositiveMoney("19.99")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), m.MinorUnits())

	_, err = ParsePositiveMoney("0")
	assert.Error(t, err)

	_, err = ParsePositiveMoney("-5")
	assert.Error(t, err)

	// Positive before truncation but zero after it is still rejected.
	_, err = ParsePositiveMoney("0.004")
	assert.Error(t, err)
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "12.34", NewMoney(1234).String())
	assert.Equal(t, "0.05", NewMoney(5).String())
	assert.Equal(t, "-3.00", NewMoney(-300).String())
}

func TestMoneyAdd(t *testing.T) {
	sum := NewMoney(150).Add(NewMoney(-50))
	assert.Equal(t, int64(100), sum.MinorUnits())
	assert.True(t, sum.IsPositive())
	assert.False(t, NewMoney(0).IsPositive())
}
