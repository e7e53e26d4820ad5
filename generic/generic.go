// Package generic reads spreadsheets kept by hand, and JSON exports
// flattened to rows, in a simple English layout:
//
//	date,time,type,isin,wkn,company,shares,price,amount,fee,tax,currency,fxRate,foreignCurrency
//	2019-01-25,09:04,Buy,US0378331005,,Apple,36,123,4428,10,0,EUR,,
//
// Only date, type, shares, amount and currency are required columns.
// Blank price is computed from amount and shares, blank fee and tax are
// zero. Such files often lack an ISIN or a WKN: see
// docimport.Validator.AllowCompanyOnly.
package generic

import (
	"fmt"
	"strings"

	"github.com/etnz/docimport"
)

// Name is the broker name of generic activities.
const Name = "generic"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var required = []string{"date", "type", "shares", "amount", "currency"}

// aliases maps lower-cased type cells to activity types.
var aliases = map[string]docimport.ActivityType{
	"buy":          docimport.Buy,
	"sell":         docimport.Sell,
	"dividend":     docimport.Dividend,
	"transferin":   docimport.TransferIn,
	"transfer in":  docimport.TransferIn,
	"deposit":      docimport.TransferIn,
	"transferout":  docimport.TransferOut,
	"transfer out": docimport.TransferOut,
	"withdrawal":   docimport.TransferOut,
}

// Extractor reads generic rows.
type Extractor struct {
	Synth docimport.Synthesizer
	// Locale of numbers, English by default.
	Locale docimport.Locale
}

// New returns an Extractor reading dates in the default zone.
func New() *Extractor {
	return &Extractor{Synth: docimport.DefaultSynthesizer(), Locale: docimport.English}
}

func (e *Extractor) Name() string { return Name }

func (e *Extractor) Kinds() []docimport.FileKind { return []docimport.FileKind{docimport.KindCSV} }

func (e *Extractor) Recognizes(doc *docimport.Document, kind docimport.FileKind) bool {
	return kind == docimport.KindCSV && !doc.IsEmpty() && len(doc.Rows) > 0 && doc.Rows[0].Has(required...)
}

func (e *Extractor) Extract(doc *docimport.Document) (docimport.Result, error) {
	if len(doc.Rows) == 0 {
		return docimport.Result{}, docimport.ErrEmptyDocument
	}
	var activities []*docimport.Activity
	for i, row := range doc.Rows {
		a, err := e.activity(row)
		if err != nil {
			return docimport.Result{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		activities = append(activities, a)
	}
	return docimport.Found(activities...), nil
}

// ParseType returns the activity type written as s. Unknown types are
// returned as is for the validator to reject.
func ParseType(s string) docimport.ActivityType {
	if t, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return docimport.ActivityType(s)
}

func (e *Extractor) activity(row docimport.Row) (*docimport.Activity, error) {
	cur := strings.ToUpper(row.Get("currency"))
	if err := docimport.ValidateCurrency(cur); err != nil {
		return nil, err
	}
	a := &docimport.Activity{
		Broker:  Name,
		Type:    ParseType(row.Get("type")),
		ISIN:    strings.ToUpper(row.Get("isin")),
		WKN:     strings.ToUpper(row.Get("wkn")),
		Company: row.Get("company"),
	}
	var err error
	if a.Date, a.Datetime, err = e.Synth.Synthesize(row.Get("date"), row.Get("time"), dateLayout, dateTimeLayout); err != nil {
		return nil, err
	}

	a.Shares, _ = docimport.ParseQuantity(row.Get("shares"), e.Locale)
	a.Amount = e.money(row.Get("amount"), cur, docimport.Money{})
	if text := row.Get("price"); text != "" {
		a.Price = e.money(text, cur, docimport.Money{})
	} else {
		a.Price = docimport.PriceOf(a.Amount, a.Shares)
	}
	a.Fee = e.money(row.Get("fee"), cur, docimport.M(0, cur))
	a.Tax = e.money(row.Get("tax"), cur, docimport.M(0, cur))

	if rate := row.Get("fxRate"); rate != "" {
		a.FxRate, _ = docimport.ParseQuantity(rate, e.Locale)
	}
	a.ForeignCurrency = strings.ToUpper(row.Get("foreignCurrency"))
	return a, nil
}

// money parses text, returning blank when text is empty. Unreadable
// text is unset.
func (e *Extractor) money(text, cur string, blank docimport.Money) docimport.Money {
	if text == "" {
		return blank
	}
	m, _ := docimport.ParseMoney(text, cur, e.Locale)
	return m
}
