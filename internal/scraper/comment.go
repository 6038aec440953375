package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FindHTMLInComment parses the text of the first comment child of sel as an
// HTML document. Comments nested deeper are ignored. It returns false when sel
// is empty or has no comment child.
func FindHTMLInComment(sel *goquery.Selection) (*goquery.Document, bool) {
	if sel == nil {
		return nil, false
	}

	for _, n := range sel.Nodes {
		comment := firstComment(n)
		if comment == nil {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(comment.Data))
		if err != nil {
			return nil, false
		}
		return doc, true
	}
	return nil, false
}

// firstComment returns the first comment among node's direct children.
func firstComment(node *html.Node) *html.Node {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.CommentNode {
			return child
		}
	}
	return nil
}

// LocateTable finds table#id in doc. When the table is not rendered it looks for
// the comment-wrapped copy inside the site's div#all_<id> container. The result
// is empty when neither exists.
func LocateTable(doc *goquery.Document, id string) *goquery.Selection {
	table := doc.Find("table#" + id)
	if table.Length() > 0 {
		return table.First()
	}

	hidden, ok := FindHTMLInComment(doc.Find("div#all_" + id))
	if !ok {
		return table
	}
	return hidden.Find("table#" + id).First()
}
