package renderer

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"github.com/etnz/docimport"
	md "github.com/nao1215/markdown"
)

// Entry is the result of one document.
type Entry struct {
	Document string
	Result   docimport.Result
}

// ReportMarkdown renders the outcome of an import: how many documents
// ended with each status, the imported activities, and the documents
// that yielded none.
func ReportMarkdown(entries []Entry) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Import Report")

	results := make([]docimport.Result, len(entries))
	var activities []*docimport.Activity
	for i, e := range entries {
		results[i] = e.Result
		activities = append(activities, e.Result.Activities...)
	}
	counts := docimport.Count(results)
	statuses := make([]docimport.Status, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Documents"), md.Bold(strconv.Itoa(len(entries)))},
	}
	for _, s := range statuses {
		table.Rows = append(table.Rows, []string{fmt.Sprintf("%d %s", int(s), s), strconv.Itoa(counts[s])})
	}
	doc.Table(table)

	if len(activities) > 0 {
		doc.H2("Activities")
		doc.Table(activityTable(activities))
	}

	var failures []string
	for _, e := range entries {
		if e.Result.Status != docimport.StatusOK {
			failures = append(failures, fmt.Sprintf("%s: %s", md.Code(e.Document), e.Result.Status))
		}
	}
	if len(failures) > 0 {
		doc.H2("Not Imported")
		doc.BulletList(failures...)
	}
	return doc.String()
}
