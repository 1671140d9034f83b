// Package parser extracts domain entities from the legacy time
// tracker's server-rendered HTML pages.
//
// The markup is untrusted and drifts over time, so every parser
// degrades instead of failing: a page whose expected structure cannot
// be found yields an empty result, and a row that cannot be parsed is
// dropped without aborting the rest of the page.
package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// tableHeaderClass is the CSS class the server puts on header cells.
const tableHeaderClass = "tableHeader"

func parseDocument(page string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

// ownText returns the element's direct text content, excluding text of
// descendant elements, trimmed.
func ownText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// findTable locates the data table whose header row starts with the two
// given labels: a header cell whose own text equals firstLabel,
// immediately followed by a sibling cell equal to secondLabel. The
// nearest ancestor table of the matched cell is the data table. Returns
// nil when no header sequence matches, which callers treat as "page
// shape not recognized", not as an error.
func findTable(doc *goquery.Document, firstLabel, secondLabel string) *goquery.Selection {
	var table *goquery.Selection

	doc.Find("td." + tableHeaderClass).EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if ownText(td) != firstLabel {
			return true
		}
		next := td.Next()
		if next.Length() == 0 || ownText(next) != secondLabel {
			return true
		}
		candidate := next.Closest("table")
		if candidate.Length() == 0 {
			return true
		}
		table = candidate
		return false
	})

	return table
}

// dataRows returns the table's rows with the header row dropped.
func dataRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").Slice(1, goquery.ToEnd)
}

// columnIndexes scans a header row and records the cell index of each
// wanted label. Labels with no matching header cell map to -1, which
// per-row extraction skips, so the parsers survive server-side column
// reordering and hiding.
func columnIndexes(headerRow *goquery.Selection, labels ...string) map[string]int {
	indexes := make(map[string]int, len(labels))
	for _, label := range labels {
		indexes[label] = -1
	}
	headerRow.Children().Each(func(col int, cell *goquery.Selection) {
		text := ownText(cell)
		if index, ok := indexes[text]; ok && index < 0 {
			indexes[text] = col
		}
	})
	return indexes
}

// parseCost parses a monetary cell. A blank cell is a zero cost, not an
// error.
func parseCost(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0.00
	}
	cost, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0.00
	}
	return cost
}

// entityID extracts the server id from a row's edit link
// (e.g. "time_edit.php?id=42"). Rows without one keep IDNone.
func entityID(row *goquery.Selection) int64 {
	var id int64
	row.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		query := ""
		if i := strings.IndexByte(href, '?'); i >= 0 {
			query = href[i+1:]
		}
		for _, pair := range strings.Split(query, "&") {
			if value, ok := strings.CutPrefix(pair, "id="); ok {
				if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
					id = parsed
					return false
				}
			}
		}
		return true
	})
	return id
}

// parseFormID parses a hidden id input's value.
func parseFormID(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// findError extracts the page's error message, if the server rendered
// one.
func findError(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("td.error").First().Text())
}
