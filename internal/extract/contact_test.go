package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/directory-cli/internal/model"
)

func TestAddressWindow(t *testing.T) {
	lines := []string{
		"Jane Doe",
		"Wealth Advisor",
		"1250 René-Lévesque Blvd W",
		"Montréal QC H3B4W8",
		"jane@x.com",
		"Canada",
	}
	assert.Equal(t, "1250 René-Lévesque Blvd W, Montréal QC H3B4W8, Canada", AddressWindow(lines))
	assert.Empty(t, AddressWindow([]string{"no postal code", "here"}))
}

func TestAddHrefContact(t *testing.T) {
	var rec model.PersonRecord
	addHrefContact(&rec, "MAILTO:Jane@Example.com?subject=Hi")
	addHrefContact(&rec, "tel:%2B1%20514%20555%200100")
	addHrefContact(&rec, "tel:+1-514-555-0100")
	addHrefContact(&rec, "mailto:")
	addHrefContact(&rec, "https://example.com")

	assert.Equal(t, []string{"jane@example.com"}, rec.Emails)
	assert.Equal(t, []string{"+1 514 555 0100"}, rec.Phones)
}

func TestAddTextContacts_Bounded(t *testing.T) {
	var rec model.PersonRecord
	addTextContacts(&rec, []string{"a@x.com b@x.com", "c@x.com d@x.com"})
	assert.Len(t, rec.Emails, model.MaxEmails)
}

func TestAddAnchorContacts_SelectionMembers(t *testing.T) {
	doc := mustParse(t, `<body><h3>Jane Doe</h3>
<a href="mailto:jane@example.com">Email</a>
<p><a href="tel:514-555-0100">Call</a></p>
<h3>Next</h3></body>`, "")
	h := doc.Find("h3").First()
	block := h.AddSelection(h.NextUntil("h3"))

	var rec model.PersonRecord
	addAnchorContacts(&rec, block)
	assert.Equal(t, []string{"jane@example.com"}, rec.Emails)
	assert.Equal(t, []string{"514-555-0100"}, rec.Phones)
	assert.True(t, hasContactAnchor(block))
}
