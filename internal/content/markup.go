// Package content converts scraped page markup into plain text.
package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ToText converts an HTML fragment to plain text. Line breaks and
// paragraph starts become newline characters, every other tag is
// unwrapped with its text retained, lines are trimmed, and blank
// lines are removed.
func ToText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(newlineNode())
	})
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.BeforeNodes(newlineNode())
	})

	lines := strings.Split(doc.Text(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n"), nil
}

// newlineNode builds a fresh text node holding a single newline. A
// node cannot appear in the tree twice, so each caller gets its own.
func newlineNode() *html.Node {
	return &html.Node{Type: html.TextNode, Data: "\n"}
}
