package comdirect

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/docimport"
	"github.com/etnz/docimport/date"
)

func newExtractor(t *testing.T, now time.Time) *Extractor {
	t.Helper()
	s, err := docimport.NewSynthesizer(docimport.FixedClock(now), docimport.DefaultZone)
	if err != nil {
		t.Fatalf("NewSynthesizer() failed: %v", err)
	}
	return &Extractor{Synth: s}
}

func pdf(pages ...docimport.Page) *docimport.Document {
	return &docimport.Document{Name: "test.pdf", Kind: docimport.KindPDF, Pages: pages}
}

func buyPage() docimport.Page {
	return docimport.Page{
		"comdirect bank", "Wertpapierkauf",
		"Geschäftstag", "25.01.2019", "Handelszeit", "09:04 Uhr",
		"Wertpapier-Bezeichnung", "Apple Inc.", "WKN/ISIN", "865985", "US0378331005",
		"Stück", "36", "Ausführungskurs", "123,00", "EUR",
		"Kurswert", "EUR", "4.428,00",
		"Provision", "EUR", "10,00",
		"Zu Ihren Lasten", "EUR", "4.438,00",
	}
}

func dividendPage() docimport.Page {
	return docimport.Page{
		"comdirect bank", "Dividendengutschrift",
		"Wertpapier-Bezeichnung", "Apple Inc.", "WKN/ISIN", "865985", "US0378331005",
		"Stück", "20", "Valuta", "15.02.2021",
		"Bruttobetrag", "USD", "16,40", "Devisenkurs", "1,2120",
		"Kapitalertragsteuer", "EUR", "2,03",
	}
}

func TestRecognizes(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		doc  *docimport.Document
		kind docimport.FileKind
		want bool
	}{
		{"buy", pdf(buyPage()), docimport.KindPDF, true},
		{"dividend", pdf(dividendPage()), docimport.KindPDF, true},
		{"storno", pdf(docimport.Page{"comdirect bank", "Storno", "Wertpapierkauf"}), docimport.KindPDF, true},
		{"csv", pdf(buyPage()), docimport.KindCSV, false},
		{"no marker", pdf(docimport.Page{"Wertpapierkauf"}), docimport.KindPDF, false},
		{"no heading", pdf(docimport.Page{"comdirect bank", "Kontoauszug"}), docimport.KindPDF, false},
		{"empty", pdf(), docimport.KindPDF, false},
		{"nil", nil, docimport.KindPDF, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Recognizes(tc.doc, tc.kind); got != tc.want {
				t.Errorf("Recognizes() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractBuy(t *testing.T) {
	e := newExtractor(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	res, err := e.Extract(pdf(buyPage()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if res.Status != docimport.StatusOK || len(res.Activities) != 1 {
		t.Fatalf("Extract() = %v with %d activities, want ok with 1", res.Status, len(res.Activities))
	}
	want := &docimport.Activity{
		Broker:   Name,
		Type:     docimport.Buy,
		Date:     date.New(2019, time.January, 25),
		Datetime: time.Date(2019, time.January, 25, 8, 4, 0, 0, time.UTC),
		ISIN:     "US0378331005",
		WKN:      "865985",
		Company:  "Apple Inc.",
		Shares:   docimport.Q(36),
		Price:    docimport.M(123, "EUR"),
		Amount:   docimport.M(4428, "EUR"),
		Fee:      docimport.M(10, "EUR"),
		Tax:      docimport.M(0, "EUR"),
	}
	if got := res.Activities[0]; !got.Equal(want) {
		t.Errorf("Extract() got\n%v\nwant\n%v", got, want)
	}
}

func TestExtractForeignPrice(t *testing.T) {
	page := buyPage()
	page[page.Index("Ausführungskurs")+2] = "USD"
	e := newExtractor(t, time.Now())
	res, err := e.Extract(pdf(page))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if got, want := res.Activities[0].Price, docimport.M(123, "EUR"); !got.Equal(want) {
		t.Errorf("Price = %v, want %v computed from the amount", got, want)
	}
}

func TestExtractDividend(t *testing.T) {
	// 11:11:12 in Berlin.
	now := time.Date(2021, time.March, 1, 10, 11, 12, 0, time.UTC)
	e := newExtractor(t, now)
	res, err := e.Extract(pdf(dividendPage()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	a := res.Activities[0]
	if got, want := a.Datetime, time.Date(2021, time.February, 15, 10, 11, 12, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Datetime = %v, want %v", got, want)
	}
	if got, want := a.Date, date.New(2021, time.February, 15); got != want {
		t.Errorf("Date = %v, want %v", got, want)
	}
	if got, want := a.Amount, docimport.M(13.53, "EUR"); !got.Equal(want) {
		t.Errorf("Amount = %v, want %v", got, want)
	}
	if got, want := a.FxRate, docimport.Q(1.212); !got.Equal(want) {
		t.Errorf("FxRate = %v, want %v", got, want)
	}
	if a.ForeignCurrency != "USD" {
		t.Errorf("ForeignCurrency = %q, want USD", a.ForeignCurrency)
	}
	if got, want := a.Tax, docimport.M(2.03, "EUR"); !got.Equal(want) {
		t.Errorf("Tax = %v, want %v", got, want)
	}
	if _, err := (docimport.Validator{Clock: docimport.FixedClock(now)}).Validate(a); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestExtractPages(t *testing.T) {
	e := newExtractor(t, time.Now())
	res, err := e.Extract(pdf(buyPage(), docimport.Page{"Seite 2", "Hinweise"}, dividendPage()))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if got := len(res.Activities); got != 2 {
		t.Fatalf("Extract() returned %d activities, want 2", got)
	}
	if res.Activities[0].Type != docimport.Buy || res.Activities[1].Type != docimport.Dividend {
		t.Errorf("Extract() types = %s, %s", res.Activities[0].Type, res.Activities[1].Type)
	}
}

func TestExtractStorno(t *testing.T) {
	res, err := New().Extract(pdf(append(buyPage(), "Storno")))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if res.Status != docimport.StatusUnsupportedVariant || res.Activities != nil {
		t.Errorf("Extract() = %+v, want unsupported variant", res)
	}
}

func TestExtractMissingLabel(t *testing.T) {
	page := buyPage()
	page[page.Index("Geschäftstag")] = "Datum"
	_, err := New().Extract(pdf(page))
	if !errors.Is(err, docimport.ErrMissingLabel) {
		t.Errorf("Extract() error = %v, want %v", err, docimport.ErrMissingLabel)
	}
}

func TestExtractUnreadableShares(t *testing.T) {
	page := buyPage()
	page[page.Index("Stück")+1] = "sechsunddreißig"
	res, err := New().Extract(pdf(page))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if res.Activities[0].Shares.IsSet() {
		t.Errorf("Shares = %v, want unset", res.Activities[0].Shares)
	}
}

func TestExtractCosts(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := docimport.Pipeline{
		Registry:  docimport.NewRegistry(newExtractor(t, now)),
		Validator: docimport.Validator{Clock: docimport.FixedClock(now)},
	}
	tests := []struct {
		name  string
		extra []string
		want  docimport.Status
	}{
		{"fees", []string{"Börsenplatzgebühr", "EUR", "1,50"}, docimport.StatusOK},
		{"unreadable fee", []string{"Börsenplatzgebühr", "EUR", "1O,OO"}, docimport.StatusInvalid},
		{"unreadable tax", []string{"Kirchensteuer", "EUR", "n/a"}, docimport.StatusInvalid},
		{"foreign fee", []string{"Fremde Spesen", "USD", "1,00"}, docimport.StatusExtractorError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := append(buyPage(), tc.extra...)
			res := p.Run(pdf(page), docimport.KindPDF)
			if res.Status != tc.want {
				t.Fatalf("Run() = %v, want %v", res.Status, tc.want)
			}
			if tc.want == docimport.StatusOK {
				if got, want := res.Activities[0].Fee, docimport.M(11.5, "EUR"); !got.Equal(want) {
					t.Errorf("Fee = %v, want %v", got, want)
				}
			}
		})
	}

	page := buyPage()
	page[page.Index("Provision")+2] = "zehn"
	res, err := newExtractor(t, now).Extract(pdf(page))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if fee := res.Activities[0].Fee; fee.IsSet() {
		t.Errorf("Fee = %v, want unset", fee)
	}

	_, err = newExtractor(t, now).Extract(pdf(append(buyPage(), "Fremde Spesen", "USD", "1,00")))
	if !errors.Is(err, docimport.ErrCurrencyMismatch) {
		t.Errorf("Extract() error = %v, want %v", err, docimport.ErrCurrencyMismatch)
	}
}
