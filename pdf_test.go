package docimport

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTextTokens(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Page
	}{
		{
			"Tj",
			"BT /F1 10 Tf 72 712 Td (comdirect bank) Tj 0 -12 Td (Wertpapierkauf) Tj ET",
			Page{"comdirect bank", "Wertpapierkauf"},
		},
		{
			"TJ with kerning",
			"BT [(Gesch) 20 (\\344ftstag)] TJ [(25.01.) -250 (2019)] TJ ET",
			Page{"Geschäftstag", "25.01. 2019"},
		},
		{
			"escapes and nesting",
			`BT (a \(b\) (c)) Tj (tab\there) Tj (line\
joined) Tj ET`,
			Page{"a (b) (c)", "tab here", "linejoined"},
		},
		{
			"quote operators",
			"BT (first) ' 1 2 (second) \" ET",
			Page{"first", "second"},
		},
		{
			"blank strings and hex",
			"BT (   ) Tj <48656c6c6f> Tj << /MCID 0 >> BDC (kept) Tj EMC ET % (comment) Tj\n",
			Page{"kept"},
		},
		{
			"string without operator",
			"BT (dropped) Td (kept) Tj ET",
			Page{"kept"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := textTokens(strings.NewReader(tc.content))
			if err != nil {
				t.Fatalf("textTokens() failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("textTokens() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextTokensUnterminated(t *testing.T) {
	if _, err := textTokens(strings.NewReader("BT (never closed Tj")); err == nil {
		t.Error("textTokens() succeeded on an unterminated string")
	}
}

func TestDecodePDFInvalid(t *testing.T) {
	if _, err := DecodePDF(strings.NewReader("not a pdf")); err == nil {
		t.Error("DecodePDF() succeeded on garbage")
	}
}
