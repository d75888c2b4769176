package sheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// htmlWorkbook reads spreadsheets saved as HTML, where every <table> is
// one sheet. Many shop-floor systems export ".xls" files in this form.
type htmlWorkbook struct {
	names  []string
	sheets map[string][][]string
}

func openHTML(data []byte) (Workbook, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	wb := &htmlWorkbook{sheets: make(map[string][][]string)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			name := uniqueName(wb.sheets, tableName(n, len(wb.names)+1))
			wb.names = append(wb.names, name)
			wb.sheets[name] = tableRows(n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(wb.names) == 0 {
		return nil, fmt.Errorf("parse html: no tables found")
	}
	return wb, nil
}

func (w *htmlWorkbook) SheetNames() []string {
	return append([]string(nil), w.names...)
}

func (w *htmlWorkbook) Rows(name string) ([][]string, error) {
	rows, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", name)
	}
	return rows, nil
}

func (w *htmlWorkbook) Close() error {
	return nil
}

// tableName uses the caption, then data-sheet, then id, then a position
func tableName(table *html.Node, position int) string {
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "caption" {
			if text := nodeText(c); text != "" {
				return text
			}
		}
	}
	for _, key := range []string{"data-sheet", "id"} {
		if v := strings.TrimSpace(attr(table, key)); v != "" {
			return v
		}
	}
	return "Sheet" + strconv.Itoa(position)
}

func uniqueName(existing map[string][][]string, name string) string {
	if _, taken := existing[name]; !taken {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", name, i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

// tableRows collects the rows of one table without descending into nested
// tables. A cell spanning several columns is followed by empty cells, and a
// cell spanning several rows leaves an empty cell at its columns in the rows
// below, the way merged ranges read from an xlsx file.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	carry := make(map[int]int) // column -> rows still covered by a rowspan above

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "table":
				continue
			case "tr":
				rows = append(rows, rowCells(c, carry))
			default:
				walk(c)
			}
		}
	}
	walk(table)

	return rows
}

func rowCells(tr *html.Node, carry map[int]int) []string {
	var cells []string

	// skip columns still occupied by a cell from an earlier row
	skipCarried := func() {
		for carry[len(cells)] > 0 {
			carry[len(cells)]--
			cells = append(cells, "")
		}
	}

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		skipCarried()

		col := len(cells)
		cols := spanAttr(c, "colspan")
		cells = append(cells, nodeText(c))
		for i := 1; i < cols; i++ {
			cells = append(cells, "")
		}
		if rows := spanAttr(c, "rowspan"); rows > 1 {
			for i := 0; i < cols; i++ {
				carry[col+i] = rows - 1
			}
		}
	}

	// carried columns to the right of the last cell
	last := -1
	for col, n := range carry {
		if n > 0 && col > last {
			last = col
		}
	}
	for len(cells) <= last {
		if carry[len(cells)] > 0 {
			carry[len(cells)]--
		}
		cells = append(cells, "")
	}

	return cells
}

// spanAttr reads a colspan or rowspan; missing or invalid values are 1
func spanAttr(n *html.Node, key string) int {
	span, err := strconv.Atoi(strings.TrimSpace(attr(n, key)))
	if err != nil || span < 1 {
		return 1
	}
	if span > 1024 {
		return 1024
	}
	return span
}

// nodeText returns the whitespace-collapsed text content of a node
func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		case html.ElementNode:
			if n.Data == "br" {
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(buf.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
