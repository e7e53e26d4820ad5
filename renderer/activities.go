package renderer

import (
	"bytes"

	"github.com/etnz/docimport"
	md "github.com/nao1215/markdown"
)

// ActivitiesMarkdown renders activities as a table, one row each.
func ActivitiesMarkdown(title string, activities []*docimport.Activity) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)
	if len(activities) == 0 {
		doc.PlainText("No activity.")
		return doc.String()
	}
	doc.Table(activityTable(activities))
	return doc.String()
}

func activityTable(activities []*docimport.Activity) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Broker", "Type", "Security", "Shares", "Price", "Amount", "Fee", "Tax"},
	}
	for _, a := range activities {
		table.Rows = append(table.Rows, []string{
			a.Date.String(),
			a.Broker,
			string(a.Type),
			Security(a),
			a.Shares.String(),
			a.Price.String(),
			a.Amount.String(),
			a.Fee.String(),
			a.Tax.String(),
		})
	}
	return table
}
