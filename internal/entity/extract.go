package entity

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
)

// extraction is one best-effort field group of an entity scrape.
type extraction struct {
	group string
	run   func(doc *goquery.Document) error
	reset func()
}

// runExtractions runs each group independently. A failure is logged, counted
// and resets that group's fields only.
func runExtractions(doc *goquery.Document, kind, name string, groups []extraction) {
	for _, g := range groups {
		if err := g.run(doc); err != nil {
			logger.IncrCounter("extract.failed." + g.group)
			logger.Warn("Extraction failed", logger.Fields{
				"entity": kind,
				"name":   name,
				"field":  g.group,
				"error":  err.Error(),
			})
			if g.reset != nil {
				g.reset()
			}
		}
	}
}

// findText returns the first text node in document order that matches re.
// Script and style contents are ignored.
func findText(doc *goquery.Document, re *regexp.Regexp) (string, bool) {
	for _, root := range doc.Nodes {
		if text, ok := walkText(root, re); ok {
			return text, true
		}
	}
	return "", false
}

func walkText(n *html.Node, re *regexp.Regexp) (string, bool) {
	if n.Type == html.TextNode && re.MatchString(n.Data) {
		return n.Data, true
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return "", false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text, ok := walkText(c, re); ok {
			return text, true
		}
	}
	return "", false
}

var newlines = regexp.MustCompile(`\n ?`)

// lineText returns the text of sel with newlines (and the space following
// each) removed.
func lineText(sel *goquery.Selection) string {
	return newlines.ReplaceAllString(sel.Text(), "")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ", ") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
