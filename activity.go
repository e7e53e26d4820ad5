package docimport

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/docimport/date"
)

// ActivityType is the closed set of activity kinds.
type ActivityType string

// Activity types.
const (
	Buy         ActivityType = "Buy"
	Sell        ActivityType = "Sell"
	Dividend    ActivityType = "Dividend"
	TransferIn  ActivityType = "TransferIn"
	TransferOut ActivityType = "TransferOut"
)

// ActivityTypes lists every valid ActivityType.
var ActivityTypes = []ActivityType{Buy, Sell, Dividend, TransferIn, TransferOut}

// IsValid reports whether t is one of ActivityTypes.
func (t ActivityType) IsValid() bool {
	switch t {
	case Buy, Sell, Dividend, TransferIn, TransferOut:
		return true
	}
	return false
}

// Activity is a canonical financial transaction read from a document.
//
// Activities are built by extractors and must not be changed once they
// passed the Validator: corrections are new activities.
type Activity struct {
	Broker   string       // Broker names the extractor that produced the activity.
	Type     ActivityType // Type is the kind of activity.
	Date     date.Date    // Date is the calendar date in the document's zone.
	Datetime time.Time    // Datetime is the execution instant, in UTC.

	ISIN    string // ISIN of the security, optional if WKN is set.
	WKN     string // WKN of the security, optional if ISIN is set.
	Company string // Company is the security name as printed.

	Shares Quantity // Shares is the number of units, strictly positive.
	Price  Money    // Price is the price of one share in the settlement currency.
	Amount Money    // Amount is the total consideration in the settlement currency.
	Fee    Money    // Fee is the sum of fees, negative for refunds.
	Tax    Money    // Tax is the sum of taxes, negative for refunds.

	FxRate          Quantity // FxRate is the foreign units per settlement unit, set with ForeignCurrency.
	ForeignCurrency string   // ForeignCurrency is the ISO 4217 code of the original leg.
}

// Currency returns the settlement currency of a.
func (a *Activity) Currency() string {
	for _, m := range []Money{a.Amount, a.Price, a.Fee, a.Tax} {
		if m.cur != "" {
			return m.cur
		}
	}
	return ""
}

func (a *Activity) String() string {
	sec := a.ISIN
	if sec == "" {
		sec = a.WKN
	}
	if sec == "" {
		sec = a.Company
	}
	return fmt.Sprintf("%s %s %s %v × %v = %v", a.Date, a.Broker, a.Type, sec, a.Shares, a.Amount)
}

// Equal reports whether a and b hold the same values.
func (a *Activity) Equal(b *Activity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Broker == b.Broker && a.Type == b.Type && a.Date == b.Date && a.Datetime.Equal(b.Datetime) &&
		a.ISIN == b.ISIN && a.WKN == b.WKN && a.Company == b.Company &&
		a.Shares.Equal(b.Shares) && a.Price.Equal(b.Price) && a.Amount.Equal(b.Amount) &&
		a.Fee.Equal(b.Fee) && a.Tax.Equal(b.Tax) &&
		a.FxRate.Equal(b.FxRate) && a.ForeignCurrency == b.ForeignCurrency
}

// decimalOrNull returns the decimal of m for json, or nil when unset.
func decimalOrNull(m Money) any {
	if !m.set {
		return nil
	}
	return m.value
}

// MarshalJSON writes the activity with a stable key order. Decimals are
// written as JSON numbers with all their digits.
func (a Activity) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("broker", a.Broker)
	w.Append("type", a.Type)
	w.Append("date", a.Date)
	if !a.Datetime.IsZero() {
		w.Append("datetime", a.Datetime.UTC().Format(time.RFC3339))
	}
	w.Optional("isin", a.ISIN)
	w.Optional("wkn", a.WKN)
	w.Optional("company", a.Company)
	w.Append("shares", a.Shares)
	w.Append("price", decimalOrNull(a.Price))
	w.Append("amount", decimalOrNull(a.Amount))
	w.Append("fee", decimalOrNull(a.Fee))
	w.Append("tax", decimalOrNull(a.Tax))
	w.Optional("currency", a.Currency())
	if a.FxRate.IsSet() {
		w.Append("fxRate", a.FxRate)
	}
	w.Optional("foreignCurrency", a.ForeignCurrency)
	return w.MarshalJSON()
}

// UnmarshalJSON reads what MarshalJSON writes.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var temp struct {
		Broker          string       `json:"broker"`
		Type            ActivityType `json:"type"`
		Date            date.Date    `json:"date"`
		Datetime        string       `json:"datetime"`
		ISIN            string       `json:"isin"`
		WKN             string       `json:"wkn"`
		Company         string       `json:"company"`
		Shares          Quantity     `json:"shares"`
		Price           Quantity     `json:"price"`
		Amount          Quantity     `json:"amount"`
		Fee             Quantity     `json:"fee"`
		Tax             Quantity     `json:"tax"`
		Currency        string       `json:"currency"`
		FxRate          Quantity     `json:"fxRate"`
		ForeignCurrency string       `json:"foreignCurrency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	var instant time.Time
	if temp.Datetime != "" {
		t, err := time.Parse(time.RFC3339, temp.Datetime)
		if err != nil {
			return fmt.Errorf("invalid datetime %q: %w", temp.Datetime, err)
		}
		instant = t.UTC()
	}
	money := func(q Quantity) Money {
		if !q.set {
			return Money{}
		}
		return M(q.value, temp.Currency)
	}
	*a = Activity{
		Broker:          temp.Broker,
		Type:            temp.Type,
		Date:            temp.Date,
		Datetime:        instant,
		ISIN:            temp.ISIN,
		WKN:             temp.WKN,
		Company:         temp.Company,
		Shares:          temp.Shares,
		Price:           money(temp.Price),
		Amount:          money(temp.Amount),
		Fee:             money(temp.Fee),
		Tax:             money(temp.Tax),
		FxRate:          temp.FxRate,
		ForeignCurrency: temp.ForeignCurrency,
	}
	return nil
}
