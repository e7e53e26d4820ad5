package docimport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DecodePDFFile opens the PDF file at path and decodes it with DecodePDF.
func DecodePDFFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePDF(f)
}

// DecodePDF reads the text of each page of a PDF. Every string shown by a
// text operator (Tj, TJ, ' or ") becomes one trimmed token of the page.
// Hex strings are skipped: broker statements use simple fonts and hex is
// almost always glyph ids.
func DecodePDF(rs io.ReadSeeker) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("cannot read PDF: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("cannot count PDF pages: %w", err)
	}

	doc := &Document{Kind: KindPDF}
	for nr := 1; nr <= ctx.PageCount; nr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, nr)
		if err != nil {
			return nil, fmt.Errorf("cannot extract page %d: %w", nr, err)
		}
		if r == nil {
			doc.Pages = append(doc.Pages, Page{})
			continue
		}
		page, err := textTokens(r)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", nr, err)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

// textTokens scans a page content stream for shown strings.
func textTokens(r io.Reader) (Page, error) {
	br := bufio.NewReader(r)
	var (
		page    Page
		pending strings.Builder
		inArray bool
	)
	emit := func() {
		if tok := strings.TrimSpace(pending.String()); tok != "" {
			page = append(page, tok)
		}
		pending.Reset()
	}

	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return page, nil
		}
		if err != nil {
			return nil, err
		}
		switch {
		case isPDFSpace(c):
		case c == '%':
			if _, err := br.ReadString('\n'); err == io.EOF {
				return page, nil
			}
		case c == '(':
			if err := readLiteral(br, &pending); err != nil {
				return nil, err
			}
		case c == '<':
			next, err := br.ReadByte()
			if err != nil {
				return page, nil
			}
			if next != '<' {
				if _, err := br.ReadString('>'); err == io.EOF {
					return page, nil
				}
			}
		case c == '>', c == '{', c == '}':
		case c == '[':
			inArray = true
		case c == ']':
			inArray = false
		case c == '/':
			readRegular(br, nil)
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			num := readRegular(br, []byte{c})
			// Wide negative kerning in a TJ array stands for a blank.
			if v, err := strconv.ParseFloat(num, 64); err == nil && inArray && v <= -200 {
				pending.WriteByte(' ')
			}
		default:
			switch readRegular(br, []byte{c}) {
			case "Tj", "TJ", "'", `"`:
				emit()
			default:
				pending.Reset()
			}
		}
	}
}

// readLiteral reads a literal string after its opening parenthesis.
// Bytes are taken as Latin-1, which matches WinAnsi for letters.
func readLiteral(br *bufio.Reader, out *strings.Builder) error {
	depth := 1
	for {
		c, err := br.ReadByte()
		if err != nil {
			return fmt.Errorf("unterminated string: %w", err)
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return nil
			}
		case '\\':
			e, err := br.ReadByte()
			if err != nil {
				return fmt.Errorf("unterminated string: %w", err)
			}
			switch e {
			case 'n', 'r', 't':
				out.WriteByte(' ')
				continue
			case 'b', 'f':
				continue
			case '\r', '\n':
				continue
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := []byte{e}
				for len(oct) < 3 {
					d, err := br.ReadByte()
					if err != nil {
						break
					}
					if d < '0' || d > '7' {
						br.UnreadByte()
						break
					}
					oct = append(oct, d)
				}
				v, _ := strconv.ParseUint(string(oct), 8, 8)
				out.WriteRune(rune(v))
				continue
			default:
				c = e
			}
		}
		out.WriteRune(rune(c))
	}
}

// readRegular reads the rest of a run of regular characters.
func readRegular(br *bufio.Reader, buf []byte) string {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return string(buf)
		}
		if isPDFSpace(c) || isPDFDelimiter(c) {
			br.UnreadByte()
			return string(buf)
		}
		buf = append(buf, c)
	}
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}
