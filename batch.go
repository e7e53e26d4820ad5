package docimport

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll processes docs concurrently, at most workers at a time, each with
// its own Kind. The returned results are in the order of docs.
//
// Documents share nothing, so a failure on one never affects another: RunAll
// always processes every document unless ctx is cancelled, in which case
// the remaining ones are reported as StatusExtractorError.
func (p *Pipeline) RunAll(ctx context.Context, docs []*Document, workers int) []Result {
	results := make([]Result, len(docs))
	g := new(errgroup.Group)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, doc := range docs {
		g.Go(func() error {
			var kind FileKind
			if doc != nil {
				kind = doc.Kind
			}
			results[i] = p.RunContext(ctx, doc, kind)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return results
}

// Count tallies results by status.
func Count(results []Result) map[Status]int {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
