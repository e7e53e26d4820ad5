package date

import "fmt"

// Range is a half-open range of dates: From is included, To is not.
type Range struct{ From, To Date }

// Since returns the range [from, to).
func Since(from, to Date) Range { return Range{From: from, To: to} }

// Contains return true if date is in [From, To).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && date.Before(r.To) }

func (r Range) String() string { return fmt.Sprintf("[%s, %s)", r.From, r.To) }
