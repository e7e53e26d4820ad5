// Package comdirect reads trade confirmations and dividend advices of
// comdirect bank.
//
// Documents are page-oriented: each page holding one of the headings
// "Wertpapierkauf", "Wertpapierverkauf", "Dividendengutschrift" or
// "Ertragsgutschrift" gives one activity. Values follow their label:
//
//	Geschäftstag 25.01.2019  Handelszeit 09:04 Uhr
//	Wertpapier-Bezeichnung Apple Inc.  WKN/ISIN 865985 US0378331005
//	Stück 36  Ausführungskurs 123,00 EUR
//	Kurswert EUR 4.428,00  Provision EUR 10,00
package comdirect

import (
	"fmt"

	"github.com/etnz/docimport"
	"github.com/rs/zerolog/log"
)

// Name is the broker name of comdirect activities.
const Name = "comdirect"

// settlement is the currency of every comdirect account.
const settlement = "EUR"

// marker is printed in the letterhead of every document.
const marker = "comdirect bank"

var headings = map[string]docimport.ActivityType{
	"Wertpapierkauf":       docimport.Buy,
	"Wertpapierverkauf":    docimport.Sell,
	"Dividendengutschrift": docimport.Dividend,
	"Ertragsgutschrift":    docimport.Dividend,
}

// variants are recognized documents that hold no activity we can import.
var variants = []string{"Storno", "Finanzreport"}

var (
	feeLabels = []string{"Provision", "Fremde Spesen", "Börsenplatzgebühr", "Übertragungs-/Liefergebühr"}
	taxLabels = []string{"Kapitalertragsteuer", "Solidaritätszuschlag", "Kirchensteuer"}
)

// Extractor reads comdirect documents.
type Extractor struct {
	Synth docimport.Synthesizer
}

// New returns an Extractor reading dates in the default German zone.
func New() *Extractor { return &Extractor{Synth: docimport.DefaultSynthesizer()} }

func (e *Extractor) Name() string { return Name }

func (e *Extractor) Kinds() []docimport.FileKind { return []docimport.FileKind{docimport.KindPDF} }

// Recognizes reports whether doc is a comdirect document of a known kind.
func (e *Extractor) Recognizes(doc *docimport.Document, kind docimport.FileKind) bool {
	if kind != docimport.KindPDF || doc.IsEmpty() || !doc.ContainsText(marker) {
		return false
	}
	for h := range headings {
		if doc.Contains(h) {
			return true
		}
	}
	for _, v := range variants {
		if doc.Contains(v) {
			return true
		}
	}
	return false
}

// Extract returns one activity per page with a heading.
func (e *Extractor) Extract(doc *docimport.Document) (docimport.Result, error) {
	if doc.IsEmpty() {
		return docimport.Result{}, docimport.ErrEmptyDocument
	}
	for _, v := range variants {
		if doc.Contains(v) {
			return docimport.Unsupported(), nil
		}
	}

	var activities []*docimport.Activity
	for i, p := range doc.Pages {
		typ, ok := heading(p)
		if !ok {
			continue
		}
		var (
			a   *docimport.Activity
			err error
		)
		if typ == docimport.Dividend {
			a, err = e.dividend(p)
		} else {
			a, err = e.trade(p, typ)
		}
		if err != nil {
			return docimport.Result{}, fmt.Errorf("page %d: %w", i+1, err)
		}
		activities = append(activities, a)
	}
	return docimport.Found(activities...), nil
}

func heading(p docimport.Page) (docimport.ActivityType, bool) {
	for _, tok := range p {
		if t, ok := headings[tok]; ok {
			return t, true
		}
	}
	return "", false
}

// security reads the security reference common to every document.
func security(p docimport.Page, a *docimport.Activity) error {
	var err error
	if a.WKN, err = p.Field("WKN/ISIN", 1); err != nil {
		return err
	}
	if a.ISIN, err = p.Field("WKN/ISIN", 2); err != nil {
		return err
	}
	if a.Company, err = p.Field("Wertpapier-Bezeichnung", 1); err != nil {
		return err
	}
	// Unparseable share counts stay unset for the validator to reject.
	if i := p.Index("Stück"); i >= 0 {
		a.Shares, _ = docimport.ParseQuantity(p.At(i+1), docimport.German)
	}
	return nil
}

// amount reads "label CUR value" and returns the value in CUR. A missing
// label or an unreadable value yields an unset Money.
func amount(p docimport.Page, label string) docimport.Money {
	i := p.Index(label)
	if i < 0 {
		return docimport.Money{}
	}
	m, err := docimport.ParseMoney(p.At(i+2), p.At(i+1), docimport.German)
	if err != nil {
		log.Warn().Str("broker", Name).Str("label", label).Err(err).Msg("unreadable amount")
	}
	return m
}

// sum adds up the amounts of the labels printed on p. An unreadable
// amount makes the sum unset.
func sum(p docimport.Page, labels []string) (docimport.Money, error) {
	var ms []docimport.Money
	for _, l := range labels {
		if p.Index(l) >= 0 {
			ms = append(ms, amount(p, l))
		}
	}
	return docimport.Sum(settlement, ms...)
}

// costs sets the fee and the tax of a.
func costs(p docimport.Page, a *docimport.Activity) (err error) {
	if a.Fee, err = sum(p, feeLabels); err != nil {
		return fmt.Errorf("fee: %w", err)
	}
	if a.Tax, err = sum(p, taxLabels); err != nil {
		return fmt.Errorf("tax: %w", err)
	}
	return nil
}

func (e *Extractor) trade(p docimport.Page, typ docimport.ActivityType) (*docimport.Activity, error) {
	a := &docimport.Activity{Broker: Name, Type: typ}
	day, err := p.Field("Geschäftstag", 1)
	if err != nil {
		return nil, err
	}
	tm, _ := p.After("Handelszeit", 1)
	if a.Date, a.Datetime, err = e.Synth.Synthesize(day, tm, docimport.DefaultDateLayout, docimport.DefaultDateTimeLayout); err != nil {
		return nil, err
	}
	if err := security(p, a); err != nil {
		return nil, err
	}

	if p.Index("Kurswert") < 0 {
		return nil, fmt.Errorf("%w %q", docimport.ErrMissingLabel, "Kurswert")
	}
	a.Amount = amount(p, "Kurswert")

	// The execution price is quoted in the market's currency, which may
	// not be the settlement one.
	if i := p.Index("Ausführungskurs"); i >= 0 && p.At(i+2) == a.Amount.Currency() {
		a.Price, _ = docimport.ParseMoney(p.At(i+1), p.At(i+2), docimport.German)
	} else {
		a.Price = docimport.PriceOf(a.Amount, a.Shares)
	}
	if err := costs(p, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (e *Extractor) dividend(p docimport.Page) (*docimport.Activity, error) {
	a := &docimport.Activity{Broker: Name, Type: docimport.Dividend}
	day, err := p.Field("Valuta", 1)
	if err != nil {
		return nil, err
	}
	// Dividend advices carry no time.
	if a.Date, a.Datetime, err = e.Synth.Synthesize(day, "", docimport.DefaultDateLayout, docimport.DefaultDateTimeLayout); err != nil {
		return nil, err
	}
	if err := security(p, a); err != nil {
		return nil, err
	}

	if p.Index("Bruttobetrag") < 0 {
		return nil, fmt.Errorf("%w %q", docimport.ErrMissingLabel, "Bruttobetrag")
	}
	gross := amount(p, "Bruttobetrag")
	if cur := gross.Currency(); cur != settlement {
		text, err := p.Field("Devisenkurs", 1)
		if err != nil {
			return nil, fmt.Errorf("dividend paid in %s: %w", cur, err)
		}
		a.FxRate, _ = docimport.ParseQuantity(text, docimport.German)
		a.ForeignCurrency = cur
		gross = docimport.Convert(gross, a.FxRate, settlement)
	}
	a.Amount = gross
	a.Price = docimport.PriceOf(a.Amount, a.Shares)
	if err := costs(p, a); err != nil {
		return nil, err
	}
	return a, nil
}
