package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/directory-cli/internal/model"
)

// Generic is the last-resort extractor for unmapped hosts and for family
// extractors that found nobody: JSON-LD, then strict headings, then loose
// headings.
func Generic(doc *goquery.Document) []model.PersonRecord {
	if people := JSONLD(doc); len(people) > 0 {
		return people
	}
	if people := Headings(doc, HeadingOptions{}); len(people) > 0 {
		return people
	}
	return Headings(doc, HeadingOptions{Loose: true})
}
