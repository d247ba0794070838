package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageTitle(t *testing.T) {
	doc := mustParse(t, `<html><head><title>Fallback</title></head><body><h1> </h1><h1>Smith  Group</h1></body></html>`, "")
	assert.Equal(t, "Smith Group", PageTitle(doc))

	doc = mustParse(t, `<html><head><title> The Lee Team | Wealth </title></head><body></body></html>`, "")
	assert.Equal(t, "The Lee Team | Wealth", PageTitle(doc))
}

func TestParse_SetsBase(t *testing.T) {
	doc := mustParse(t, `<p>x</p>`, "https://example.com/a/")
	assert.Equal(t, "https://example.com/a/", baseOf(doc))

	doc = mustParse(t, `<p>x</p>`, "not a url")
	assert.Empty(t, baseOf(doc))
}
