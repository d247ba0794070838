package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/site"
)

func TestRenderFamilies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderFamilies(&buf, config.SitesConfig{
		Directory: config.DirectorySite{Hosts: []string{"ca.rbcwealthmanagement.com"}},
		Hub:       config.HubSite{Hosts: []string{"woodgundyadvisors.cibc.com"}, HubPath: "our-investment-advisors-and-their-teams"},
	}))

	out := buf.String()
	assert.Contains(t, out, "ca.rbcwealthmanagement.com")
	assert.Contains(t, out, "woodgundyadvisors.cibc.com")
	assert.Contains(t, out, "our-investment-advisors-and-their-teams")
	assert.Contains(t, out, "any other host")
	assert.Contains(t, out, "generic")

	// Rows follow dispatch order.
	assert.Less(t, strings.Index(out, "directory"), strings.Index(out, "roster"))
	assert.Less(t, strings.Index(out, "roster"), strings.Index(out, "hub"))
}

func TestRenderFamilies_DefaultRosterPattern(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderFamilies(&buf, config.SitesConfig{}))
	assert.Contains(t, buf.String(), "links matching "+site.DefaultRosterPattern[:10])
}

func TestRenderFamilies_BadPattern(t *testing.T) {
	var buf bytes.Buffer
	err := renderFamilies(&buf, config.SitesConfig{Roster: config.RosterSite{PathPattern: "(["}})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestHostList(t *testing.T) {
	assert.Equal(t, "-", hostList(nil))
	assert.Equal(t, "a.com\nb.com", hostList([]string{"a.com", "b.com"}))
}
