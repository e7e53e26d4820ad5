package docimport

import "github.com/shopspring/decimal"

// number lists the Go types accepted by the Q and M factories.
type number interface {
	float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is a decimal number of units: shares, or an exchange rate.
//
// The zero Quantity is not 0, it is a missing value: extractors leave a
// field unset when its text could not be parsed and the Validator rejects
// it. Use Q(0) for an actual zero.
type Quantity struct {
	value decimal.Decimal
	set   bool
}

// Q returns the Quantity holding value.
func Q[T number](value T) Quantity {
	return Quantity{value: newDecimal(value), set: true}
}

// IsSet reports whether q holds a number.
func (q Quantity) IsSet() bool { return q.set }

// Decimal returns the underlying decimal, zero if unset.
func (q Quantity) Decimal() decimal.Decimal { return q.value }

func (q Quantity) Equal(p Quantity) bool { return q.set == p.set && q.value.Equal(p.value) }
func (q Quantity) Mul(p Quantity) Quantity { return Quantity{value: q.value.Mul(p.value), set: q.set && p.set} }
func (q Quantity) Add(p Quantity) Quantity { return Quantity{value: q.value.Add(p.value), set: q.set && p.set} }
func (q Quantity) Neg() Quantity           { return Quantity{value: q.value.Neg(), set: q.set} }
func (q Quantity) Abs() Quantity           { return Quantity{value: q.value.Abs(), set: q.set} }
func (q Quantity) IsNegative() bool        { return q.value.IsNegative() }
func (q Quantity) IsPositive() bool        { return q.value.IsPositive() }
func (q Quantity) IsZero() bool            { return q.value.IsZero() }

func (q Quantity) String() string {
	if !q.set {
		return "NaN"
	}
	return q.value.String()
}

// MarshalJSON writes the decimal text, or null when unset.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.set {
		return []byte("null"), nil
	}
	return q.value.MarshalJSON()
}

func (q *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	if string(decimalBytes) == "null" {
		*q = Quantity{}
		return nil
	}
	if err := q.value.UnmarshalJSON(decimalBytes); err != nil {
		return err
	}
	q.set = true
	return nil
}
