package docimport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept by divisions such as
// PriceOf. It matches the decimal library's DivisionPrecision so that
// amount = price × shares round-trips to price for any price with fewer
// fractional digits.
const Precision = 16

// Locale describes how a document writes decimal numbers.
type Locale int

const (
	// German numbers use "." to group thousands and "," as decimal separator: 1.234,56
	German Locale = iota
	// English numbers use "," to group thousands and "." as decimal separator: 1,234.56
	English
)

func (l Locale) String() string {
	switch l {
	case German:
		return "de"
	case English:
		return "en"
	default:
		return "unknown"
	}
}

// ErrNotANumber is returned when a text cannot be read as a decimal.
var ErrNotANumber = errors.New("not a number")

func errInvalidCurrency(code string) error {
	return fmt.Errorf("invalid currency %q: must be a 3 letter ISO 4217 code", code)
}

// ParseDecimal reads a localized decimal text.
//
// Surrounding spaces, inner spaces and a leading "+" are ignored. A
// trailing "-", as printed on some statements, negates the number.
func ParseDecimal(text string, l Locale) (decimal.Decimal, error) {
	s := strings.Join(strings.Fields(text), "")
	s = strings.TrimPrefix(s, "+")
	negate := false
	if len(s) > 1 && strings.HasSuffix(s, "-") {
		negate = true
		s = strings.TrimSuffix(s, "-")
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("parsing %q: %w", text, ErrNotANumber)
	}
	switch l {
	case German:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case English:
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %q as %s decimal: %w", text, l, ErrNotANumber)
	}
	if negate {
		d = d.Neg()
	}
	return d, nil
}

// ParseQuantity is ParseDecimal returning a Quantity. On error the
// returned Quantity is unset.
func ParseQuantity(text string, l Locale) (Quantity, error) {
	d, err := ParseDecimal(text, l)
	if err != nil {
		return Quantity{}, err
	}
	return Q(d), nil
}

// ParseMoney is ParseDecimal returning a Money in currency. On error the
// returned Money is unset.
func ParseMoney(text, currency string, l Locale) (Money, error) {
	d, err := ParseDecimal(text, l)
	if err != nil {
		return Money{}, err
	}
	return M(d, currency), nil
}

// PriceOf returns amount / shares rounded to Precision fractional digits.
// The result is unset when shares is unset or not strictly positive.
func PriceOf(amount Money, shares Quantity) Money {
	if !amount.set || !shares.set || !shares.IsPositive() {
		return Money{}
	}
	return Money{value: amount.value.DivRound(shares.value, Precision), cur: amount.cur, set: true}
}

// Convert returns amount expressed in the settlement currency cur given
// rate, the number of foreign units per settlement unit (e.g. 1.2 USD per
// EUR). The result is rounded to the currency's fraction digits.
func Convert(amount Money, rate Quantity, cur string) Money {
	if !amount.set || !rate.set || !rate.IsPositive() {
		return Money{}
	}
	m := Money{value: amount.value.DivRound(rate.value, Precision), cur: cur, set: true}
	m.value = m.value.Round(m.fraction())
	return m
}

// ErrCurrencyMismatch is returned when amounts in different currencies
// are added up.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Sum adds up the fees or taxes printed on a document, in currency cur.
// The sum of nothing is zero. An unset operand, a value that could not be
// read, makes the sum unset. An operand in another currency is an error.
func Sum(cur string, ms ...Money) (Money, error) {
	total, unset := M(0, cur), false
	for _, m := range ms {
		if m.cur != "" && m.cur != cur {
			return Money{}, fmt.Errorf("%w: %v is not in %s", ErrCurrencyMismatch, m, cur)
		}
		if !m.set {
			unset = true
			continue
		}
		total.value = total.value.Add(m.value)
	}
	if unset {
		return Money{}, nil
	}
	return total, nil
}
