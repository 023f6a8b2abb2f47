package rod

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CellText parses a table-row fragment and returns the trimmed text content
// of the 1-based nth <td>. It is the fallback for when the expected element
// nesting inside a cell no longer matches the live markup.
func CellText(rowHTML string, n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("cell index must be >= 1, got %d", n)
	}

	// html.Parse wraps fragments in html/body and, for a bare <tr>, drops
	// the row unless it sits inside a table.
	doc, err := html.Parse(strings.NewReader("<table>" + rowHTML + "</table>"))
	if err != nil {
		return "", fmt.Errorf("row parse failed: %w", err)
	}

	cells := collectCells(doc)
	if n > len(cells) {
		return "", fmt.Errorf("row has %d cells, wanted cell %d", len(cells), n)
	}

	var b strings.Builder
	appendText(cells[n-1], &b)
	return strings.TrimSpace(b.String()), nil
}

func collectCells(n *html.Node) []*html.Node {
	var cells []*html.Node
	if n.Type == html.ElementNode && n.Data == "td" {
		return []*html.Node{n}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cells = append(cells, collectCells(c)...)
	}
	return cells
}

func appendText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(c, b)
	}
}
