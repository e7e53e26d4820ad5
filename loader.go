package docimport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"
)

// LoadOptions tunes LoadDocument.
type LoadOptions struct {
	// RowsPath is a JSONPath selecting the records of a JSON export, like
	// "$.transactions[*]". When empty, JSON files are read as token dumps.
	RowsPath string
	// Comma is the CSV separator, sniffed from the header when 0.
	Comma rune
}

// ErrUnsupportedFile is returned for files LoadDocument cannot read.
var ErrUnsupportedFile = errors.New("unsupported file")

// LoadDocument reads the file at path into a Document. The kind is
// derived from the extension:
//   - .pdf: text operators of each page, see DecodePDF;
//   - .txt: a text dump, see DecodeText;
//   - .json: a token dump (see DecodeTokens), or an export when opts.RowsPath is set;
//   - .csv: a table with a header line.
func LoadDocument(path string, opts LoadOptions) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		doc, err = DecodePDFFile(path)
	case ".txt", ".json", ".csv":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		switch {
		case ext == ".txt":
			doc, err = DecodeText(f)
		case ext == ".csv":
			doc, err = DecodeCSV(f, opts.Comma)
		case opts.RowsPath != "":
			doc, err = DecodeJSONRows(f, opts.RowsPath)
		default:
			doc, err = DecodeTokens(f)
		}
	default:
		return nil, fmt.Errorf("%w %q: unknown extension %q", ErrUnsupportedFile, path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", path, err)
	}
	doc.Name = path
	doc.ID = uuid.NewString()
	return doc, nil
}

// columnGap separates columns in text laid out with spaces.
var columnGap = regexp.MustCompile(`\s{2,}|\t`)

// DecodeText reads a page-oriented text dump, as written by pdftotext
// -layout: pages are separated by form feeds, and each line is split into
// tokens on runs of two or more spaces. Blank tokens are dropped.
func DecodeText(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{Kind: KindPDF}
	for _, text := range strings.Split(string(data), "\f") {
		var page Page
		for _, line := range strings.Split(text, "\n") {
			for _, tok := range columnGap.Split(line, -1) {
				if tok = strings.TrimSpace(tok); tok != "" {
					page = append(page, tok)
				}
			}
		}
		if len(page) > 0 {
			doc.Pages = append(doc.Pages, page)
		}
	}
	return doc, nil
}

// DecodeTokens reads a JSON token dump:
//
//	{"kind":"pdf","pages":[["token", ...], ...]}
//	{"kind":"csv","rows":[{"column":"cell", ...}, ...]}
//
// The kind defaults to "pdf" for pages and "csv" for rows.
func DecodeTokens(r io.Reader) (*Document, error) {
	var temp struct {
		Kind  string   `json:"kind"`
		Pages []Page   `json:"pages"`
		Rows  []Row    `json:"rows"`
	}
	if err := json.NewDecoder(r).Decode(&temp); err != nil {
		return nil, fmt.Errorf("invalid token dump: %w", err)
	}
	doc := &Document{Pages: temp.Pages, Rows: temp.Rows}
	switch {
	case temp.Kind != "":
		k, err := ParseFileKind(temp.Kind)
		if err != nil {
			return nil, err
		}
		doc.Kind = k
	case len(temp.Rows) > 0:
		doc.Kind = KindCSV
	default:
		doc.Kind = KindPDF
	}
	return doc, nil
}

// DecodeCSV reads a table whose first record names the columns. When
// comma is 0 the separator is ";" if the header has more ";" than ",".
// Blank records are skipped.
func DecodeCSV(r io.Reader, comma rune) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")) // UTF-8 BOM
	if comma == 0 {
		header, _, _ := bytes.Cut(data, []byte("\n"))
		comma = ','
		if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
			comma = ';'
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Document{Kind: KindCSV}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	// Unnamed columns, like the currency next to an amount, are named
	// after the column before them: "Kurs", "Kurs#2".
	base, rank := "", 1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" && base != "" {
			rank++
			h = base + "#" + strconv.Itoa(rank)
		} else {
			base, rank = h, 1
		}
		header[i] = h
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	doc := &Document{Kind: KindCSV}
	for _, record := range records {
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}
		row := make(Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// DecodeJSONRows reads a JSON export and selects its records with the
// JSONPath path. Each record must be an object; its scalar fields become
// cells, nested values are kept as JSON text.
func DecodeJSONRows(r io.Reader, path string) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	selected, err := jsonpath.Get(path, v)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// jsonpath returns a list for wildcards and a single value otherwise.
	records, ok := selected.([]any)
	if !ok {
		records = []any{selected}
	}

	doc := &Document{Kind: KindCSV}
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d selected by %q is a %T, not an object", i, path, rec)
		}
		row := make(Row, len(obj))
		for k, val := range obj {
			row[k] = cell(val)
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// cell formats a decoded JSON value as CSV would have.
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
