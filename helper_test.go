package docimport

import (
	"time"

	"github.com/etnz/docimport/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// testNow is the clock reading of tests: 2024-03-10 12:34:56 in Berlin.
var testNow = time.Date(2024, time.March, 10, 11, 34, 56, 0, time.UTC)

func testValidator() Validator {
	return Validator{Clock: FixedClock(testNow), Location: berlin()}
}

func berlin() *time.Location {
	loc, err := time.LoadLocation(DefaultZone)
	if err != nil {
		panic(err)
	}
	return loc
}

// appleBuy is a well formed activity.
func appleBuy() *Activity {
	return &Activity{
		Broker:   "fake",
		Type:     Buy,
		Date:     date.New(2019, time.January, 25),
		Datetime: time.Date(2019, time.January, 25, 8, 4, 0, 0, time.UTC),
		ISIN:     "US0378331005",
		Shares:   Q(36),
		Price:    EUR(123),
		Amount:   EUR(4428),
		Fee:      EUR(10),
		Tax:      EUR(0),
	}
}

// fake is a configurable Extractor.
type fake struct {
	name      string
	kinds     []FileKind
	marker    string // recognized token, "" recognizes everything
	result    Result
	err       error
	panics    bool
	block     chan struct{} // Extract waits on it when set
	recognize func(*Document) bool
}

func (f *fake) Name() string { return f.name }

func (f *fake) Kinds() []FileKind { return f.kinds }

func (f *fake) Recognizes(doc *Document, kind FileKind) bool {
	if f.recognize != nil {
		return f.recognize(doc)
	}
	return f.marker == "" || doc.Contains(f.marker)
}

func (f *fake) Extract(doc *Document) (Result, error) {
	if f.block != nil {
		<-f.block
	}
	if f.panics {
		panic("boom")
	}
	return f.result, f.err
}

// page returns a one page document of tokens.
func page(tokens ...string) *Document {
	return &Document{Name: "test", Kind: KindPDF, Pages: []Page{tokens}}
}
