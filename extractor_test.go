package docimport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	a := &fake{name: "a", marker: "comdirect bank"}
	b := &fake{name: "b", marker: "Wertpapierkauf"}
	rows := &fake{name: "rows", kinds: []FileKind{KindCSV}, recognize: func(d *Document) bool { return len(d.Rows) > 0 }}
	panicky := &fake{name: "panicky", recognize: func(d *Document) bool { return d.Pages[3][0] == "" }}
	r := NewRegistry(a, b, rows, panicky)

	tests := []struct {
		name string
		doc  *Document
		want []string
	}{
		{"none", page("Kontoauszug"), nil},
		{"one", page("Wertpapierkauf"), []string{"b"}},
		{"registration order", page("Wertpapierkauf", "comdirect bank"), []string{"a", "b"}},
		{"rows", &Document{Kind: KindCSV, Rows: []Row{{"a": "1"}}}, []string{"rows"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Names(r.Classify(tc.doc, tc.doc.Kind))
			if tc.want == nil {
				tc.want = []string{}
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	a := &fake{name: "a", kinds: []FileKind{KindPDF}}
	extractors := []Extractor{a}
	r := NewRegistry(extractors...)
	extractors[0] = &fake{name: "b"}

	if got := r.Lookup("a"); got != a {
		t.Errorf("Lookup(a) = %v, want a", got)
	}
	if got := r.Lookup("b"); got != nil {
		t.Errorf("Lookup(b) = %v, want nil: the registry must not share its list", got)
	}
	if !r.Supports(KindPDF) || r.Supports(KindCSV) || r.Supports("") {
		t.Errorf("Supports() = pdf:%v csv:%v empty:%v, want true false false", r.Supports(KindPDF), r.Supports(KindCSV), r.Supports(""))
	}
	if got := len(r.Extractors()); got != 1 {
		t.Errorf("len(Extractors()) = %d, want 1", got)
	}
}
