package augment

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseFragment parses an HTML fragment into a document whose body holds
// the fragment.
func ParseFragment(fragment string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	if err != nil {
		return nil, fmt.Errorf("parsing html fragment: %w", err)
	}
	return doc, nil
}

// FragmentHTML serialises the body content of doc.
func FragmentHTML(doc *goquery.Document) (string, error) {
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialising html: %w", err)
	}
	return out, nil
}
