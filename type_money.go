package docimport

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a settlement currency.
//
// Like Quantity, the zero Money is a missing value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
	set   bool
}

// M returns the Money holding value in currency. An empty currency is a
// weak currency that adopts the currency of the other operand.
func M[T number](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency, set: true}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// fraction returns the number of fraction digits of the currency, 2 when unknown.
func (m Money) fraction() int32 {
	if m.cur == "" || money.GetCurrency(m.cur) == nil {
		return 2
	}
	return int32(m.currency().Fraction)
}

// String returns the amount formatted for display with the currency's
// fraction digits, rounding half away from zero.
func (m Money) String() string {
	if !m.set {
		return "NaN"
	}
	if m.cur == "" || money.GetCurrency(m.cur) == nil {
		return m.value.StringFixed(m.fraction())
	}
	cur := m.currency()
	dec := m.value.Round(m.fraction()).Shift(m.fraction())
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) IsSet() bool                  { return m.set }
func (m Money) Decimal() decimal.Decimal     { return m.value }
func (m Money) Currency() string             { return m.cur }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool        { return m.value.LessThan(n.value) }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg(), cur: m.cur, set: m.set} }
func (m Money) Abs() Money                   { return Money{value: m.value.Abs(), cur: m.cur, set: m.set} }
func (m Money) Mul(q Quantity) Money         { return Money{value: m.value.Mul(q.value), cur: m.cur, set: m.set && q.set} }
func (m Money) WithCurrency(cur string) Money { m.cur = cur; return m }

// Equal reports whether both values are set, have the same amount and the same currency.
func (m Money) Equal(n Money) bool {
	return m.set == n.set && m.value.Equal(n.value) && m.cur == n.cur
}

// binary operators.
func (m Money) Add(n Money) Money {
	return Money{value: m.value.Add(n.value), cur: cur(m, n), set: m.set && n.set}
}
func (m Money) Sub(n Money) Money {
	return Money{value: m.value.Sub(n.value), cur: cur(m, n), set: m.set && n.set}
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// ValidateCurrency returns an error unless code is a known ISO 4217 currency code.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return errInvalidCurrency(code)
	}
	if money.GetCurrency(code) == nil {
		return errInvalidCurrency(code)
	}
	return nil
}
