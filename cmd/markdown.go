package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md for the terminal. When raw, or when rendering
// fails, md is written as is.
func printMarkdown(w io.Writer, md string, raw bool) error {
	if !raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			var out string
			if out, err = r.Render(md); err == nil {
				_, err = io.WriteString(w, out)
				return err
			}
		}
		fmt.Fprintf(w, "<!-- cannot render markdown: %v -->\n", err)
	}
	_, err := io.WriteString(w, md)
	return err
}
