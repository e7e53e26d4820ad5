// Package degiro reads the transactions export of DEGIRO (Transactions.csv,
// German edition).
package degiro

import (
	"fmt"

	"github.com/etnz/docimport"
)

// Name is the broker name of DEGIRO activities.
const Name = "degiro"

const (
	dateLayout     = "02-01-2006"
	dateTimeLayout = "02-01-2006 15:04"
)

// Columns of the transactions export. Currencies sit in the unnamed
// column following an amount.
const (
	colDate     = "Datum"
	colTime     = "Uhrzeit"
	colProduct  = "Produkt"
	colISIN     = "ISIN"
	colShares   = "Anzahl"
	colPrice    = "Kurs"
	colPriceCur = "Kurs#2"
	colValue    = "Wert"
	colValueCur = "Wert#2"
	colRate     = "Wechselkurs"
	colFee      = "Transaktionskosten"
	colFeeCur   = "Transaktionskosten#2"
	colOrder    = "Order-ID"
)

var transactionColumns = []string{colDate, colTime, colProduct, colISIN, colShares, colPrice, colValue, colOrder}

// accountColumns identify the account statement (Account.csv). It mixes
// cash movements and trades without their prices and is not supported.
var accountColumns = []string{colDate, colTime, "Valutadatum", colProduct, colISIN, "Beschreibung", "Saldo"}

// Extractor reads DEGIRO exports.
type Extractor struct {
	Synth docimport.Synthesizer
}

// New returns an Extractor reading dates in the default German zone.
func New() *Extractor { return &Extractor{Synth: docimport.DefaultSynthesizer()} }

func (e *Extractor) Name() string { return Name }

func (e *Extractor) Kinds() []docimport.FileKind { return []docimport.FileKind{docimport.KindCSV} }

func (e *Extractor) Recognizes(doc *docimport.Document, kind docimport.FileKind) bool {
	if kind != docimport.KindCSV || doc.IsEmpty() || len(doc.Rows) == 0 {
		return false
	}
	first := doc.Rows[0]
	return first.Has(transactionColumns...) || first.Has(accountColumns...)
}

// Extract returns one activity per row.
func (e *Extractor) Extract(doc *docimport.Document) (docimport.Result, error) {
	if len(doc.Rows) == 0 {
		return docimport.Result{}, docimport.ErrEmptyDocument
	}
	if !doc.Rows[0].Has(transactionColumns...) {
		return docimport.Unsupported(), nil
	}
	activities := make([]*docimport.Activity, 0, len(doc.Rows))
	for i, row := range doc.Rows {
		a, err := e.activity(row)
		if err != nil {
			// The header is line 1.
			return docimport.Result{}, fmt.Errorf("line %d: %w", i+2, err)
		}
		activities = append(activities, a)
	}
	return docimport.Found(activities...), nil
}

func (e *Extractor) activity(row docimport.Row) (*docimport.Activity, error) {
	a := &docimport.Activity{
		Broker:  Name,
		Type:    docimport.Buy,
		ISIN:    row.Get(colISIN),
		Company: row.Get(colProduct),
	}
	var err error
	if a.Date, a.Datetime, err = e.Synth.Synthesize(row.Get(colDate), row.Get(colTime), dateLayout, dateTimeLayout); err != nil {
		return nil, err
	}

	// Sold shares are negative, bought ones positive.
	a.Shares, _ = docimport.ParseQuantity(row.Get(colShares), docimport.German)
	if a.Shares.IsNegative() {
		a.Type = docimport.Sell
		a.Shares = a.Shares.Neg()
	}

	cur := row.Get(colValueCur)
	if cur == "" {
		return nil, fmt.Errorf("no currency for %q", colValue)
	}
	// The value is negative for buys.
	value, _ := docimport.ParseMoney(row.Get(colValue), cur, docimport.German)
	a.Amount = value.Abs()

	if priceCur := row.Get(colPriceCur); priceCur == cur || priceCur == "" {
		a.Price, _ = docimport.ParseMoney(row.Get(colPrice), cur, docimport.German)
	} else {
		a.Price = docimport.PriceOf(a.Amount, a.Shares)
		a.ForeignCurrency = priceCur
		a.FxRate, _ = docimport.ParseQuantity(row.Get(colRate), docimport.German)
	}

	a.Fee = docimport.M(0, cur)
	if text := row.Get(colFee); text != "" {
		if feeCur := row.Get(colFeeCur); feeCur != "" && feeCur != cur {
			return nil, fmt.Errorf("fee in %s, want %s", feeCur, cur)
		}
		fee, _ := docimport.ParseMoney(text, cur, docimport.German)
		a.Fee = fee.Neg()
	}
	// Taxes are not part of the export.
	a.Tax = docimport.M(0, cur)
	return a, nil
}
