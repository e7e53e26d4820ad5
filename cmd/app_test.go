package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/docimport"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write %s: %v", name, err)
	}
	return path
}

func TestEnv(t *testing.T) {
	t.Setenv(EnvWorkers, "7")
	t.Setenv(EnvTimeout, "2m")
	t.Setenv(EnvLogPretty, "not a bool")

	if got := envInt(EnvWorkers, 4); got != 7 {
		t.Errorf("envInt() = %d, want 7", got)
	}
	if got := envDuration(EnvTimeout, time.Second); got != 2*time.Minute {
		t.Errorf("envDuration() = %v, want 2m", got)
	}
	if got := envBool(EnvLogPretty, true); !got {
		t.Errorf("envBool() = %v, want the default", got)
	}
	t.Setenv(EnvZone, "")
	if got := env(EnvZone, "UTC"); got != "UTC" {
		t.Errorf("env() = %q, want the default for an empty variable", got)
	}
}

func TestLoadFlagsOptions(t *testing.T) {
	tests := []struct {
		comma   string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{";", ';', false},
		{"\t", '\t', false},
		{";;", 0, true},
	}
	for _, tc := range tests {
		l := loadFlags{comma: tc.comma, rowsPath: "$.rows[*]"}
		opts, err := l.options()
		if (err != nil) != tc.wantErr {
			t.Errorf("options(%q) error = %v, wantErr %v", tc.comma, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && (opts.Comma != tc.want || opts.RowsPath != "$.rows[*]") {
			t.Errorf("options(%q) = %+v", tc.comma, opts)
		}
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry("Europe/Berlin")
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	want := []string{"comdirect", "consorsbank", "degiro", "generic"}
	if diff := cmp.Diff(want, docimport.Names(reg.Extractors())); diff != "" {
		t.Errorf("extractors mismatch (-want +got):\n%s", diff)
	}
	if _, err := NewRegistry("Nowhere/Atlantis"); err == nil {
		t.Error("NewRegistry() with an unknown zone succeeded, want an error")
	}
}

func TestImportFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "trades.csv", "date,time,type,isin,shares,price,amount,fee,tax,currency\n"+
			"2019-01-25,09:04,Buy,US0378331005,36,123,4428,10,0,EUR\n"),
		writeFile(t, dir, "letter.docx", "hello"),
		filepath.Join(dir, "missing.csv"),
		writeFile(t, dir, "blank.txt", "\n\f\n"),
		writeFile(t, dir, "unknown.txt", "Hello  World"),
	}
	p, err := NewPipeline(false)
	if err != nil {
		t.Fatalf("NewPipeline() failed: %v", err)
	}
	p.Validator.Location = time.UTC

	entries := importFiles(context.Background(), p, files, docimport.LoadOptions{})

	var got []docimport.Status
	for i, e := range entries {
		if e.Document != files[i] {
			t.Errorf("entry %d is %q, want %q", i, e.Document, files[i])
		}
		got = append(got, e.Result.Status)
	}
	want := []docimport.Status{
		docimport.StatusOK,
		docimport.StatusUnsupportedKind,
		docimport.StatusNoMatch,
		docimport.StatusNoMatch,
		docimport.StatusNoMatch,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	n, err := writeActivities(&buf, entries)
	if err != nil {
		t.Fatalf("writeActivities() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("writeActivities() = %d, want 1", n)
	}
	activities, err := docimport.DecodeActivities(&buf)
	if err != nil {
		t.Fatalf("DecodeActivities() failed: %v", err)
	}
	a := activities[0]
	// 09:04 in Berlin, winter time.
	if want := time.Date(2019, time.January, 25, 8, 4, 0, 0, time.UTC); !a.Datetime.Equal(want) {
		t.Errorf("datetime = %v, want %v", a.Datetime, want)
	}
	if a.Broker != "generic" || a.ISIN != "US0378331005" {
		t.Errorf("activity = %v", a)
	}
}

func TestPrintClassification(t *testing.T) {
	reg, err := NewRegistry("UTC")
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	comdirect := reg.Lookup("comdirect")
	generic := reg.Lookup("generic")

	var buf bytes.Buffer
	printClassification(&buf, "a.pdf", nil)
	printClassification(&buf, "b.pdf", []docimport.Extractor{comdirect})
	printClassification(&buf, "c.csv", []docimport.Extractor{comdirect, generic})
	want := "a.pdf: no match\nb.pdf: comdirect\nc.csv: ambiguous (comdirect, generic)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintBrokers(t *testing.T) {
	reg, err := NewRegistry("UTC")
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	var buf bytes.Buffer
	printBrokers(&buf, reg)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"comdirect    pdf",
		"consorsbank  pdf",
		"degiro       csv",
		"generic      csv",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintMarkdownRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := printMarkdown(&buf, "# Title\n", true); err != nil {
		t.Fatalf("printMarkdown() failed: %v", err)
	}
	if got := buf.String(); got != "# Title\n" {
		t.Errorf("printMarkdown() wrote %q", got)
	}
}
