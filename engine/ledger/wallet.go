package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInsufficientFunds is returned by Wallet.Pay when the balance is short.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet is the player's currency balance. It never goes negative.
type Wallet struct {
	balance int
}

// Balance returns the current balance.
func (w *Wallet) Balance() int {
	return w.balance
}

// Credit adds amount, rounded to the nearest integer. Non-positive amounts
// are ignored. Returns the new balance.
func (w *Wallet) Credit(amount float64) int {
	n := round(amount)
	if n <= 0 {
		return w.balance
	}
	w.balance += n
	return w.balance
}

// Debit subtracts amount, rounded to the nearest integer, only if the
// balance covers it. A non-positive amount always succeeds.
func (w *Wallet) Debit(amount float64) bool {
	n := round(amount)
	if n <= 0 {
		return true
	}
	if w.balance < n {
		return false
	}
	w.balance -= n
	return true
}

// Pay is Debit with an error describing the shortfall.
func (w *Wallet) Pay(amount float64) error {
	if w.Debit(amount) {
		return nil
	}
	return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, round(amount), w.balance)
}

func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// Amount coerces an authored value to a number. Non-numeric input is 0.
func Amount(v any) float64 {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Quantity coerces an authored value to a positive item quantity.
// Anything that does not round to at least 1 becomes 1.
func Quantity(v any) int {
	return max(1, round(Amount(v)))
}
