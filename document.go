package docimport

import (
	"errors"
	"fmt"
	"strings"
)

// FileKind tags the nature of the file a Document comes from.
type FileKind string

const (
	KindPDF FileKind = "pdf" // page-oriented: pages of text tokens.
	KindCSV FileKind = "csv" // row-oriented: rows of named cells.
)

var (
	// ErrUnknownKind is returned for a FileKind other than KindPDF and KindCSV.
	ErrUnknownKind = errors.New("unknown file kind")
	// ErrEmptyDocument is returned by extractors given a document without content.
	ErrEmptyDocument = errors.New("empty document")
	// ErrMissingLabel is returned by extractors when a label they rely on is absent.
	ErrMissingLabel = errors.New("missing label")
)

// ParseFileKind returns the FileKind named s.
func ParseFileKind(s string) (FileKind, error) {
	switch k := FileKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPDF, KindCSV:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Page is the ordered list of text tokens of one page.
type Page []string

// Index returns the index of the first token equal to tok, or -1.
func (p Page) Index(tok string) int {
	for i, t := range p {
		if t == tok {
			return i
		}
	}
	return -1
}

// IndexPrefix returns the index of the first token starting with prefix, or -1.
func (p Page) IndexPrefix(prefix string) int {
	for i, t := range p {
		if strings.HasPrefix(t, prefix) {
			return i
		}
	}
	return -1
}

// At returns the token at i, or "" when out of range.
func (p Page) At(i int) string {
	if i < 0 || i >= len(p) {
		return ""
	}
	return p[i]
}

// After returns the token n positions after the first token equal to
// label, and whether label was found.
func (p Page) After(label string, n int) (string, bool) {
	i := p.Index(label)
	if i < 0 {
		return "", false
	}
	return p.At(i + n), true
}

// Field is After returning ErrMissingLabel when label is absent or
// its value is blank.
func (p Page) Field(label string, n int) (string, error) {
	v, ok := p.After(label, n)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrMissingLabel, label)
	}
	if v == "" {
		return "", fmt.Errorf("%w: no value %d tokens after %q", ErrMissingLabel, n, label)
	}
	return v, nil
}

// Row is one record of a tabular document, by column name.
type Row map[string]string

// Get returns the trimmed cell of column.
func (r Row) Get(column string) string { return strings.TrimSpace(r[column]) }

// Has reports whether all columns exist in r.
func (r Row) Has(columns ...string) bool {
	for _, c := range columns {
		if _, ok := r[c]; !ok {
			return false
		}
	}
	return true
}

// Document is a file reduced to tokens or rows. It is never modified
// once loaded.
type Document struct {
	Name  string   // Name is the origin of the document, usually a file path.
	ID    string   // ID identifies the document in logs.
	Kind  FileKind // Kind is derived from the originating file.
	Pages []Page   // Pages are set for page-oriented documents.
	Rows  []Row    // Rows are set for row-oriented documents.
}

// IsEmpty reports whether d has nothing to parse.
func (d *Document) IsEmpty() bool {
	return d == nil || (len(d.Pages) == 0 && len(d.Rows) == 0)
}

// Contains reports whether any token of any page is equal to tok.
func (d *Document) Contains(tok string) bool {
	return d.PageWith(tok) >= 0
}

// ContainsText reports whether any token contains substr.
func (d *Document) ContainsText(substr string) bool {
	for _, p := range d.Pages {
		for _, t := range p {
			if strings.Contains(t, substr) {
				return true
			}
		}
	}
	return false
}

// PageWith returns the index of the first page holding tok, or -1.
func (d *Document) PageWith(tok string) int {
	for i, p := range d.Pages {
		if p.Index(tok) >= 0 {
			return i
		}
	}
	return -1
}

// Columns returns the column names of the first row, or nil.
func (d *Document) Columns() []string {
	if len(d.Rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(d.Rows[0]))
	for c := range d.Rows[0] {
		cols = append(cols, c)
	}
	return cols
}
