package docimport

import (
	"errors"
	"fmt"
	"time"

	"github.com/etnz/docimport/date"
	"github.com/rs/zerolog/log"
)

// Earliest is the first accepted activity date. Older dates are misparsed.
var Earliest = date.New(1990, time.January, 1)

// RejectionError tells why an activity is not well formed.
type RejectionError struct {
	Broker     string // Broker of the rejected activity, may be empty.
	Field      string // Field is the first field violating an invariant.
	Constraint string // Constraint describes the violated invariant.
}

func (e *RejectionError) Error() string {
	broker := e.Broker
	if broker == "" {
		broker = "unknown broker"
	}
	return fmt.Sprintf("%s: activity %s %s", broker, e.Field, e.Constraint)
}

// ErrRejected matches any *RejectionError with errors.Is.
var ErrRejected = errors.New("activity rejected")

func (e *RejectionError) Is(target error) bool { return target == ErrRejected }

// Validator holds the definition of a well formed Activity.
//
// The zero Validator requires an ISIN or a WKN and reads "tomorrow" on the
// system clock in UTC.
type Validator struct {
	// AllowCompanyOnly accepts a company name as the only security
	// reference. Spreadsheet imports often lack ISIN and WKN.
	AllowCompanyOnly bool
	Clock            Clock
	Location         *time.Location
}

func (v Validator) location() *time.Location {
	if v.Location == nil {
		return time.UTC
	}
	return v.Location
}

// bounds returns [Earliest, tomorrow) as dates and as instants.
func (v Validator) bounds() (days date.Range, from, to time.Time) {
	loc := v.location()
	clock := v.Clock
	if clock == nil {
		clock = SystemClock
	}
	tomorrow := date.Of(clock.Now().In(loc)).Add(1)
	return date.Since(Earliest, tomorrow), Earliest.Midnight(loc), tomorrow.Midnight(loc)
}

// Validate runs every check in a fixed order and returns the first
// violation as a *RejectionError. On success a is returned unchanged.
func (v Validator) Validate(a *Activity) (*Activity, error) {
	if a == nil {
		return nil, &RejectionError{Field: "activity", Constraint: "is missing"}
	}
	reject := func(field, constraint string, args ...any) (*Activity, error) {
		return nil, &RejectionError{Broker: a.Broker, Field: field, Constraint: fmt.Sprintf(constraint, args...)}
	}

	switch {
	case a.Broker == "":
		return reject("broker", "is required")
	case a.Type == "":
		return reject("type", "is required")
	case a.Date.IsZero():
		return reject("date", "is required")
	case a.Datetime.IsZero():
		return reject("datetime", "is required")
	}

	valid, from, to := v.bounds()
	if !valid.Contains(a.Date) {
		return reject("date", "%s must be in %s", a.Date, valid)
	}
	if a.Datetime.Before(from) || !a.Datetime.Before(to) {
		return reject("datetime", "%s must be in %s", a.Datetime.Format(time.RFC3339), valid)
	}
	if a.Datetime.Before(a.Date.Midnight(v.location())) {
		return reject("datetime", "%s is before date %s", a.Datetime.Format(time.RFC3339), a.Date)
	}

	switch {
	case !a.Shares.IsSet():
		return reject("shares", "must be a number")
	case !a.Shares.IsPositive():
		return reject("shares", "%s must be greater than 0", a.Shares)
	case !a.Price.IsSet():
		return reject("price", "must be a number")
	case a.Price.IsNegative():
		return reject("price", "%s must not be negative", a.Price)
	case !a.Amount.IsSet():
		return reject("amount", "must be a number")
	case a.Amount.IsNegative():
		return reject("amount", "%s must not be negative", a.Amount)
	case !a.Fee.IsSet():
		return reject("fee", "must be a number")
	case !a.Tax.IsSet():
		return reject("tax", "must be a number")
	}

	hasRef := a.ISIN != "" || a.WKN != ""
	if v.AllowCompanyOnly {
		hasRef = hasRef || a.Company != ""
	}
	if !hasRef {
		if v.AllowCompanyOnly {
			return reject("security", "requires an isin, a wkn or a company")
		}
		return reject("security", "requires an isin or a wkn")
	}
	if a.ISIN != "" {
		if err := ValidateISIN(a.ISIN); err != nil {
			return reject("isin", "%q: %v", a.ISIN, err)
		}
		if !HasValidCheckDigit(a.ISIN) {
			log.Warn().Str("broker", a.Broker).Str("isin", a.ISIN).Msg("isin check digit mismatch")
		}
	}
	if a.WKN != "" {
		if err := ValidateWKN(a.WKN); err != nil {
			return reject("wkn", "%v", err)
		}
	}
	if !a.Type.IsValid() {
		return reject("type", "%q must be one of %v", a.Type, ActivityTypes)
	}

	switch {
	case a.FxRate.IsSet() != (a.ForeignCurrency != ""):
		return reject("fxRate", "and foreignCurrency must be present together")
	case a.FxRate.IsSet() && !a.FxRate.IsPositive():
		return reject("fxRate", "%s must be greater than 0", a.FxRate)
	case a.ForeignCurrency != "":
		if err := ValidateCurrency(a.ForeignCurrency); err != nil {
			return reject("foreignCurrency", "%v", err)
		}
	}
	return a, nil
}
