package docimport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Status is the outcome of processing one document. Codes are part of
// the contract with callers and never change.
type Status int

const (
	StatusOK                 Status = 0 // activities are populated.
	StatusNoMatch            Status = 1 // no extractor recognized the document, or it is empty.
	StatusAmbiguous          Status = 2 // more than one extractor recognized the document.
	StatusExtractorError     Status = 3 // the extractor failed.
	StatusUnsupportedKind    Status = 4 // no extractor handles the file kind.
	StatusEmpty              Status = 5 // the extractor found no activity.
	StatusInvalid            Status = 6 // at least one activity is not well formed.
	StatusUnsupportedVariant Status = 7 // the document is a known but unsupported variant.
)

var statusNames = map[Status]string{
	StatusOK:                 "ok",
	StatusNoMatch:            "no-match",
	StatusAmbiguous:          "ambiguous",
	StatusExtractorError:     "extractor-error",
	StatusUnsupportedKind:    "unsupported-kind",
	StatusEmpty:              "empty",
	StatusInvalid:            "invalid",
	StatusUnsupportedVariant: "unsupported-variant",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is what extractors and the Pipeline return.
// Activities is nil whenever Status is not StatusOK.
type Result struct {
	Activities []*Activity
	Status     Status
}

// Found returns a successful Result of activities, for extractors.
func Found(activities ...*Activity) Result {
	return Result{Activities: activities, Status: StatusOK}
}

// Unsupported returns the Result of a recognized but unsupported variant.
func Unsupported() Result { return Result{Status: StatusUnsupportedVariant} }

func failed(s Status) Result { return Result{Status: s} }

// Pipeline processes documents end to end.
type Pipeline struct {
	Registry  *Registry
	Validator Validator
	// Timeout bounds each document in RunContext and RunAll, 0 means none.
	Timeout time.Duration
}

// Run classifies doc, extracts its activities with the only matching
// extractor and validates them. Checks happen in a fixed order so each
// situation has exactly one status. Run never panics.
func (p *Pipeline) Run(doc *Document, kind FileKind) Result {
	l := docLogger(doc)
	if doc.IsEmpty() {
		l.Debug().Msg("nothing to parse")
		return failed(StatusNoMatch)
	}
	if !p.Registry.Supports(kind) {
		l.Warn().Str("kind", string(kind)).Msg("unsupported file kind")
		return failed(StatusUnsupportedKind)
	}

	matches := p.Registry.Classify(doc, kind)
	switch len(matches) {
	case 0:
		l.Info().Msg("no extractor recognizes the document")
		return failed(StatusNoMatch)
	case 1:
	default:
		l.Warn().Strs("extractors", Names(matches)).Msg("several extractors recognize the document")
		return failed(StatusAmbiguous)
	}
	e := matches[0]
	l = l.With().Str("extractor", e.Name()).Logger()

	res, err := extract(e, doc)
	if err != nil {
		l.Error().Err(err).Msg("extraction failed")
		return failed(StatusExtractorError)
	}
	if res.Status != StatusOK {
		l.Info().Stringer("status", res.Status).Msg("extractor declined the document")
		return failed(res.Status)
	}

	for i, a := range res.Activities {
		if a == nil {
			l.Warn().Int("index", i).Msg("extractor returned an invalid activity")
			return failed(StatusInvalid)
		}
		if _, err := p.Validator.Validate(a); err != nil {
			l.Warn().Int("index", i).Err(err).Msg("activity rejected")
			return failed(StatusInvalid)
		}
	}
	if len(res.Activities) == 0 {
		l.Info().Msg("no activity found")
		return failed(StatusEmpty)
	}
	l.Debug().Int("activities", len(res.Activities)).Msg("document parsed")
	return Found(res.Activities...)
}

// ErrPanic wraps a panic raised by an extractor.
var ErrPanic = errors.New("extractor panicked")

// extract calls e.Extract turning a panic into an error.
func extract(e Extractor, doc *Document) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = Result{}, fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return e.Extract(doc)
}

// RunContext is Run bounded by ctx and p.Timeout. When ctx is done before
// Run returns the result is StatusExtractorError; the abandoned run ends
// on its own since extractors do not block.
func (p *Pipeline) RunContext(ctx context.Context, doc *Document, kind FileKind) Result {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	l := docLogger(doc)
	if err := ctx.Err(); err != nil {
		l.Warn().Err(err).Msg("aborted before processing")
		return failed(StatusExtractorError)
	}
	if ctx.Done() == nil {
		return p.Run(doc, kind)
	}

	done := make(chan Result, 1)
	go func() { done <- p.Run(doc, kind) }()
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		l.Warn().Err(ctx.Err()).Msg("aborted during processing")
		return failed(StatusExtractorError)
	}
}

func docLogger(doc *Document) zerolog.Logger {
	c := log.With()
	if doc != nil {
		c = c.Str("doc", doc.Name)
		if doc.ID != "" {
			c = c.Str("id", doc.ID)
		}
	}
	return c.Logger()
}
