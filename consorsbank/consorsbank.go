// Package consorsbank reads Consorsbank order statements and dividend
// advices.
package consorsbank

import (
	"fmt"
	"slices"

	"github.com/etnz/docimport"
)

// Name is the broker name of Consorsbank activities.
const Name = "consorsbank"

const (
	marker     = "Consorsbank"
	settlement = "EUR"
	// statements print the execution time with seconds.
	dateTimeLayout = "02.01.2006 15:04:05"
)

var headings = map[string]docimport.ActivityType{
	"KAUF":              docimport.Buy,
	"VERKAUF":           docimport.Sell,
	"DIVIDENDE":         docimport.Dividend,
	"ERTRAGSGUTSCHRIFT": docimport.Dividend,
}

const (
	// storno cancels a previous statement.
	storno = "STORNO"
	// costInfo is the yearly cost statement, it lists no transaction.
	costInfo = "KOSTENINFORMATION"
)

var (
	fees  = []string{"Provision", "Grundgebühr", "Börsenentgelt", "Fremde Abwicklungsgebühr"}
	// taxes levied in the settlement currency.
	taxes = []string{"Kapitalertragsteuer", "Solidaritätszuschlag", "Kirchensteuer"}
)

// Extractor reads Consorsbank documents.
type Extractor struct {
	Synth docimport.Synthesizer
}

// New returns an Extractor reading dates in the default German zone.
func New() *Extractor { return &Extractor{Synth: docimport.DefaultSynthesizer()} }

func (e *Extractor) Name() string { return Name }

func (e *Extractor) Kinds() []docimport.FileKind { return []docimport.FileKind{docimport.KindPDF} }

func (e *Extractor) Recognizes(doc *docimport.Document, kind docimport.FileKind) bool {
	if kind != docimport.KindPDF || doc.IsEmpty() || !doc.ContainsText(marker) {
		return false
	}
	return doc.Contains(costInfo) || slices.ContainsFunc(doc.Pages, hasHeading)
}

func hasHeading(p docimport.Page) bool {
	_, ok := heading(p)
	return ok
}

func heading(p docimport.Page) (docimport.ActivityType, bool) {
	for _, tok := range p {
		if typ, ok := headings[tok]; ok {
			return typ, true
		}
	}
	return "", false
}

// Extract reads the one activity of a statement.
func (e *Extractor) Extract(doc *docimport.Document) (docimport.Result, error) {
	if doc.IsEmpty() {
		return docimport.Result{}, docimport.ErrEmptyDocument
	}
	if doc.Contains(storno) {
		return docimport.Unsupported(), nil
	}
	i := slices.IndexFunc(doc.Pages, hasHeading)
	if i < 0 {
		// Cost statements are recognized but hold nothing.
		return docimport.Found(), nil
	}
	p := statement{doc.Pages[i]}
	typ, _ := heading(p.Page)

	var (
		a   *docimport.Activity
		err error
	)
	switch typ {
	case docimport.Dividend:
		a, err = e.dividend(p)
	default:
		a, err = e.trade(p, typ)
	}
	if err != nil {
		return docimport.Result{}, fmt.Errorf("%s statement: %w", typ, err)
	}
	return docimport.Found(a), nil
}

// statement adds value readers to a page.
type statement struct{ docimport.Page }

// money reads "label CUR value". Absent labels and unreadable values
// are unset.
func (s statement) money(label string) docimport.Money {
	i := s.Index(label)
	if i < 0 {
		return docimport.Money{}
	}
	m, _ := docimport.ParseMoney(s.At(i+2), s.At(i+1), docimport.German)
	return m
}

// units reads "label ST value".
func (s statement) units(label string) docimport.Quantity {
	i := s.Index(label)
	if i < 0 || s.At(i+1) != "ST" {
		return docimport.Quantity{}
	}
	q, _ := docimport.ParseQuantity(s.At(i+2), docimport.German)
	return q
}

// sum adds up the amounts of the labels printed on s, and more. An
// unreadable amount makes the sum unset.
func (s statement) sum(labels []string, more ...docimport.Money) (docimport.Money, error) {
	ms := more
	for _, l := range labels {
		if s.Index(l) >= 0 {
			ms = append(ms, s.money(l))
		}
	}
	return docimport.Sum(settlement, ms...)
}

func (s statement) security(a *docimport.Activity) (err error) {
	if a.Company, err = s.Field("Wertpapier", 1); err != nil {
		return err
	}
	// Either reference is enough.
	a.ISIN, _ = s.After("ISIN", 1)
	a.WKN, _ = s.After("WKN", 1)
	if a.ISIN == "" {
		// Older statements print "WKN/ISIN 716460 / DE0007164600" in a single token.
		if i := s.IndexPrefix("WKN/ISIN"); i >= 0 {
			a.ISIN = docimport.FindISIN(s.At(i))
		}
	}
	return nil
}

func (e *Extractor) trade(s statement, typ docimport.ActivityType) (*docimport.Activity, error) {
	a := &docimport.Activity{Broker: Name, Type: typ}
	day, err := s.Field("Handelstag", 1)
	if err != nil {
		return nil, err
	}
	tm, _ := s.After("Handelszeit", 1)
	if a.Date, a.Datetime, err = e.Synth.Synthesize(day, tm, docimport.DefaultDateLayout, dateTimeLayout); err != nil {
		return nil, err
	}
	if err := s.security(a); err != nil {
		return nil, err
	}
	a.Shares = s.units("Menge")
	if s.Index("Kurswert") < 0 {
		return nil, fmt.Errorf("%w %q", docimport.ErrMissingLabel, "Kurswert")
	}
	a.Amount = s.money("Kurswert")
	if a.Amount.IsSet() && a.Amount.Currency() != settlement {
		return nil, fmt.Errorf("amount %v is not in %s", a.Amount, settlement)
	}
	if i := s.Index("Kurs"); i >= 0 && s.At(i+2) == settlement {
		a.Price, _ = docimport.ParseMoney(s.At(i+1), settlement, docimport.German)
	} else {
		a.Price = docimport.PriceOf(a.Amount, a.Shares)
	}
	if a.Fee, err = s.sum(fees); err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}
	if a.Tax, err = s.sum(taxes); err != nil {
		return nil, fmt.Errorf("tax: %w", err)
	}
	return a, nil
}

func (e *Extractor) dividend(s statement) (*docimport.Activity, error) {
	a := &docimport.Activity{Broker: Name, Type: docimport.Dividend}
	day, err := s.Field("Zahltag", 1)
	if err != nil {
		return nil, err
	}
	if a.Date, a.Datetime, err = e.Synth.Synthesize(day, "", docimport.DefaultDateLayout, dateTimeLayout); err != nil {
		return nil, err
	}
	if err := s.security(a); err != nil {
		return nil, err
	}
	a.Shares = s.units("Bestand")

	gross := s.money("Brutto")
	if !gross.IsSet() {
		return nil, fmt.Errorf("%w %q", docimport.ErrMissingLabel, "Brutto")
	}
	if cur := gross.Currency(); cur != settlement {
		rate, err := s.Field("Devisenkurs", 1)
		if err != nil {
			return nil, err
		}
		a.FxRate, _ = docimport.ParseQuantity(rate, docimport.German)
		a.ForeignCurrency = cur
		gross = docimport.Convert(gross, a.FxRate, settlement)
	}
	a.Amount = gross
	a.Price = docimport.PriceOf(a.Amount, a.Shares)
	if a.Fee, err = s.sum(fees); err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}

	// Withholding tax is printed in the currency of the payment.
	var wht []docimport.Money
	if s.Index("Quellensteuer") >= 0 {
		m := s.money("Quellensteuer")
		if m.IsSet() && m.Currency() != settlement {
			m = docimport.Convert(m, a.FxRate, settlement)
		}
		wht = append(wht, m)
	}
	if a.Tax, err = s.sum(taxes, wht...); err != nil {
		return nil, fmt.Errorf("tax: %w", err)
	}
	return a, nil
}
