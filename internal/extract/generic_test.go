package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

func TestGeneric_PrefersJSONLD(t *testing.T) {
	doc := mustParse(t, `<html><head><script type="application/ld+json">{"@type":"Person","name":"Jane Doe"}</script></head>
<body><h2>John Roe</h2></body></html>`, "")
	people := Generic(doc)
	require.Len(t, people, 1)
	assert.Equal(t, "Jane Doe", people[0].Name)
}

func TestGeneric_StrictHeadingsBeforeLoose(t *testing.T) {
	doc := mustParse(t, `<body><h2>John Roe</h2><p>Advisor</p><h2>Jane smith</h2></body>`, "")
	people := Generic(doc)
	require.Len(t, people, 1)
	assert.Equal(t, "John Roe", people[0].Name)
	assert.Equal(t, model.SourceHeading, people[0].Source)
}

func TestGeneric_LooseFallback(t *testing.T) {
	doc := mustParse(t, `<body><div><h2>Jane smith</h2><p>Head of client care</p><p>jane@example.com</p></div></body>`, "")
	people := Generic(doc)
	require.Len(t, people, 1)
	assert.Equal(t, "Jane smith", people[0].Name)
	assert.Equal(t, "Head of client care", people[0].Role)
	assert.Equal(t, []string{"jane@example.com"}, people[0].Emails)
	assert.Equal(t, model.SourceGeneric, people[0].Source)
}
