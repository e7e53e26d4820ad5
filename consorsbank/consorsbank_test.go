package consorsbank

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/docimport"
	"github.com/etnz/docimport/date"
)

var berlin *time.Location

func init() {
	var err error
	if berlin, err = time.LoadLocation("Europe/Berlin"); err != nil {
		panic(err)
	}
}

func doc(tokens ...string) *docimport.Document {
	return &docimport.Document{Kind: docimport.KindPDF, Pages: []docimport.Page{tokens}}
}

func sell() *docimport.Document {
	return doc(
		"Consorsbank", "VERKAUF",
		"Wertpapier", "SAP SE", "WKN", "716460", "ISIN", "DE0007164600",
		"Handelstag", "03.06.2022", "Handelszeit", "15:30:17",
		"Menge", "ST", "10", "Kurs", "100,50", "EUR",
		"Kurswert", "EUR", "1.005,00",
		"Provision", "EUR", "4,95", "Börsenentgelt", "EUR", "1,50",
		"Kapitalertragsteuer", "EUR", "12,00", "Solidaritätszuschlag", "EUR", "0,66",
	)
}

func TestRecognizes(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		doc  *docimport.Document
		want bool
	}{
		{"sell", sell(), true},
		{"cost information", doc("Consorsbank", "KOSTENINFORMATION"), true},
		{"other bank", doc("comdirect bank", "VERKAUF"), false},
		{"letter", doc("Consorsbank", "Sehr geehrte Kundin"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Recognizes(tc.doc, docimport.KindPDF); got != tc.want {
				t.Errorf("Recognizes() = %v, want %v", got, tc.want)
			}
		})
	}
	if e.Recognizes(sell(), docimport.KindCSV) {
		t.Error("Recognizes(csv) = true, want false")
	}
}

func TestExtractSell(t *testing.T) {
	e := &Extractor{Synth: docimport.Synthesizer{Clock: docimport.SystemClock, Location: berlin}}
	res, err := e.Extract(sell())
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	want := &docimport.Activity{
		Broker:   Name,
		Type:     docimport.Sell,
		Date:     date.New(2022, time.June, 3),
		Datetime: time.Date(2022, time.June, 3, 13, 30, 17, 0, time.UTC),
		ISIN:     "DE0007164600",
		WKN:      "716460",
		Company:  "SAP SE",
		Shares:   docimport.Q(10),
		Price:    docimport.M(100.5, "EUR"),
		Amount:   docimport.M(1005, "EUR"),
		Fee:      docimport.M(6.45, "EUR"),
		Tax:      docimport.M(12.66, "EUR"),
	}
	if len(res.Activities) != 1 || !res.Activities[0].Equal(want) {
		t.Errorf("Extract() = %v, want [%v]", res.Activities, want)
	}
}

func TestExtractDividend(t *testing.T) {
	now := time.Date(2023, time.May, 12, 7, 0, 30, 0, time.UTC)
	e := &Extractor{Synth: docimport.Synthesizer{Clock: docimport.FixedClock(now), Location: berlin}}
	res, err := e.Extract(doc(
		"Consorsbank", "DIVIDENDE",
		"Wertpapier", "Microsoft Corp.", "ISIN", "US5949181045",
		"Zahltag", "11.05.2023", "Bestand", "ST", "50",
		"Brutto", "USD", "34,00", "Devisenkurs", "1,0000",
		"Quellensteuer", "USD", "5,10", "Kapitalertragsteuer", "EUR", "3,00",
	))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	a := res.Activities[0]
	// 09:00:30 in Berlin, seconds kept by the layout.
	if got, want := a.Datetime, time.Date(2023, time.May, 11, 7, 0, 30, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Datetime = %v, want %v", got, want)
	}
	if got, want := a.Tax, docimport.M(8.10, "EUR"); !got.Equal(want) {
		t.Errorf("Tax = %v, want %v", got, want)
	}
	if got, want := a.Price, docimport.M(0.68, "EUR"); !got.Equal(want) {
		t.Errorf("Price = %v, want %v", got, want)
	}
	if a.WKN != "" || a.ForeignCurrency != "USD" {
		t.Errorf("WKN, ForeignCurrency = %q, %q, want \"\", USD", a.WKN, a.ForeignCurrency)
	}
}

func TestExtractStatuses(t *testing.T) {
	tests := []struct {
		name string
		doc  *docimport.Document
		want docimport.Status
	}{
		{"storno", doc(append(sell().Pages[0], "STORNO")...), docimport.StatusUnsupportedVariant},
		{"cost information", doc("Consorsbank", "KOSTENINFORMATION"), docimport.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := New().Extract(tc.doc)
			if err != nil {
				t.Fatalf("Extract() failed: %v", err)
			}
			if res.Status != tc.want {
				t.Errorf("Extract() status = %v, want %v", res.Status, tc.want)
			}
		})
	}
}

func TestExtractForeignAmount(t *testing.T) {
	d := sell()
	p := d.Pages[0]
	p[p.Index("Kurswert")+1] = "USD"
	if _, err := New().Extract(d); err == nil {
		t.Error("Extract() succeeded on a USD amount, want error")
	}
}

func TestExtractCosts(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	p := docimport.Pipeline{
		Registry:  docimport.NewRegistry(New()),
		Validator: docimport.Validator{Clock: docimport.FixedClock(now), Location: berlin},
	}
	replace := func(label, value string) *docimport.Document {
		d := sell()
		page := d.Pages[0]
		page[page.Index(label)+2] = value
		return d
	}
	tests := []struct {
		name string
		doc  *docimport.Document
		want docimport.Status
	}{
		{"readable", sell(), docimport.StatusOK},
		{"unreadable fee", replace("Börsenentgelt", "1,5O"), docimport.StatusInvalid},
		{"unreadable tax", replace("Solidaritätszuschlag", "n/a"), docimport.StatusInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if res := p.Run(tc.doc, docimport.KindPDF); res.Status != tc.want {
				t.Errorf("Run() = %v, want %v", res.Status, tc.want)
			}
		})
	}

	d := sell()
	page := d.Pages[0]
	page[page.Index("Börsenentgelt")+1] = "USD"
	if _, err := New().Extract(d); !errors.Is(err, docimport.ErrCurrencyMismatch) {
		t.Errorf("Extract() error = %v, want %v", err, docimport.ErrCurrencyMismatch)
	}
}

func TestExtractUnreadableWithholding(t *testing.T) {
	e := &Extractor{Synth: docimport.Synthesizer{Clock: docimport.FixedClock(time.Now()), Location: berlin}}
	res, err := e.Extract(doc(
		"Consorsbank", "DIVIDENDE",
		"Wertpapier", "Microsoft Corp.", "ISIN", "US5949181045",
		"Zahltag", "11.05.2023", "Bestand", "ST", "50",
		"Brutto", "USD", "34,00", "Devisenkurs", "1,0000",
		"Quellensteuer", "USD", "fünf",
	))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if tax := res.Activities[0].Tax; tax.IsSet() {
		t.Errorf("Tax = %v, want unset", tax)
	}
}
