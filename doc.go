// Package docimport turns broker documents into a canonical ledger of
// financial activities. It is designed to fail closed: a document either
// yields activities that are all well formed, or a status telling why
// it yields none.
//
// The core functionalities include:
//   - Documents: files reduced to text tokens per page (statements, kind
//     "pdf") or to named cells per row (exports, kind "csv"), see
//     LoadDocument.
//   - Extractors: one per broker and kind of document, selected by a
//     Registry only when exactly one of them recognizes the document.
//   - Normalization: localized decimals parsed into exact Money and
//     Quantity values, dates and times combined by a Synthesizer in the
//     document's zone.
//   - Validation: a single definition of a well formed Activity enforced
//     by the Validator.
//   - Aggregation: the Pipeline maps every outcome to a Status.
//   - Persistence: activities are encoded as JSONL with exact decimals.
//
// This package serves as the foundational logic for the `docimp`
// command-line tool.
package docimport
