package docimport

import (
	"slices"

	"github.com/rs/zerolog/log"
)

// Extractor recognizes and parses one family of documents: one broker,
// one kind of document.
type Extractor interface {
	// Name identifies the extractor, it is used as the activities' Broker.
	Name() string
	// Recognizes is a pure function of the document content telling whether
	// Extract applies. It returns false on malformed input.
	Recognizes(doc *Document, kind FileKind) bool
	// Extract parses a recognized document. An error means the document
	// content was not what the extractor expected.
	Extract(doc *Document) (Result, error)
}

// KindsSupporter is implemented by extractors handling only some file kinds.
type KindsSupporter interface {
	Kinds() []FileKind
}

// kinds returns the file kinds e handles, nil meaning all.
func kinds(e Extractor) []FileKind {
	if k, ok := e.(KindsSupporter); ok {
		return k.Kinds()
	}
	return nil
}

// Registry is the ordered list of known extractors. It is read only once
// created and safe for concurrent use.
type Registry struct {
	extractors []Extractor
}

// NewRegistry returns a Registry of extractors, in that order.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: slices.Clone(extractors)}
}

// Extractors returns a copy of the registered extractors.
func (r *Registry) Extractors() []Extractor { return slices.Clone(r.extractors) }

// Lookup returns the extractor called name, or nil.
func (r *Registry) Lookup(name string) Extractor {
	for _, e := range r.extractors {
		if e.Name() == name {
			return e
		}
	}
	return nil
}

// Supports reports whether kind is valid and handled by at least one extractor.
func (r *Registry) Supports(kind FileKind) bool {
	if kind != KindPDF && kind != KindCSV {
		return false
	}
	for _, e := range r.extractors {
		ks := kinds(e)
		if ks == nil || slices.Contains(ks, kind) {
			return true
		}
	}
	return false
}

// Classify returns every extractor recognizing doc, in registration
// order. The caller decides what zero or several matches mean.
func (r *Registry) Classify(doc *Document, kind FileKind) []Extractor {
	var matches []Extractor
	for _, e := range r.extractors {
		if recognizes(e, doc, kind) {
			matches = append(matches, e)
		}
	}
	return matches
}

// recognizes calls e.Recognizes, turning a panic into false.
func recognizes(e Extractor, doc *Document, kind FileKind) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("extractor", e.Name()).Interface("panic", p).Msg("recognizes panicked")
			ok = false
		}
	}()
	return e.Recognizes(doc, kind)
}

// Names returns the names of extractors.
func Names(extractors []Extractor) []string {
	names := make([]string, len(extractors))
	for i, e := range extractors {
		names[i] = e.Name()
	}
	return names
}
