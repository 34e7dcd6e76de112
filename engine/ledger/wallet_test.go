package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWallet_DebitFromZero(t *testing.T) {
	var w Wallet
	assert.False(t, w.Debit(3))
	assert.Equal(t, 0, w.Balance())
}

func TestWallet_Credit(t *testing.T) {
	tests := []struct {
		amount float64
		want   int
	}{
		{5, 5},
		{2.4, 2},
		{2.6, 3},
		{0, 0},
		{-3, 0},
		{0.2, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		var w Wallet
		w.Credit(tt.amount)
		assert.Equal(t, tt.want, w.Balance(), "Credit(%v)", tt.amount)
	}
}

func TestWallet_Debit(t *testing.T) {
	var w Wallet
	w.Credit(10)

	assert.True(t, w.Debit(4))
	assert.Equal(t, 6, w.Balance())

	assert.False(t, w.Debit(7), "insufficient balance is refused")
	assert.Equal(t, 6, w.Balance())

	assert.True(t, w.Debit(0), "free purchases always succeed")
	assert.True(t, w.Debit(-2))
	assert.Equal(t, 6, w.Balance())

	assert.True(t, w.Debit(6))
	assert.Equal(t, 0, w.Balance())
}

func TestWallet_Pay(t *testing.T) {
	var w Wallet
	w.Credit(2)

	err := w.Pay(3)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Equal(t, 2, w.Balance())

	assert.NoError(t, w.Pay(2))
	assert.Equal(t, 0, w.Balance())
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{3, 3},
		{int64(4), 4},
		{2.5, 2.5},
		{" 7 ", 7},
		{"abc", 0},
		{nil, 0},
		{true, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Amount(tt.in), "Amount(%v)", tt.in)
	}
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, 1, Quantity(nil))
	assert.Equal(t, 1, Quantity(0))
	assert.Equal(t, 1, Quantity(-5))
	assert.Equal(t, 3, Quantity(2.6))
	assert.Equal(t, 4, Quantity("4"))
}
