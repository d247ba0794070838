package extract

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html, pageURL string) *goquery.Document {
	t.Helper()
	doc, err := Parse(html, pageURL)
	require.NoError(t, err)
	return doc
}

func textLines(texts ...string) []Line {
	out := make([]Line, len(texts))
	for i, s := range texts {
		out[i] = Line{Text: s}
	}
	return out
}
