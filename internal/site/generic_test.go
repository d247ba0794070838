package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

func TestGeneric_Discover(t *testing.T) {
	srv := newSite(t, map[string]string{
		"/about": `<html><body><h1>Acme Advisory</h1>
<a href="/about/team#top">Meet our team</a>
<a href="/contact">Contact us</a>
<a href="/privacy">Privacy</a>
</body></html>`,
	})
	g := newRegistry(t).For(model.FamilyGeneric)

	targets, err := g.Discover(context.Background(), newEnv(), srv.URL+"/about")
	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, srv.URL+"/about", targets[0].TargetURL)
	assert.Equal(t, "Acme Advisory", targets[0].LinkText)
	assert.Equal(t, srv.URL+"/about/team", targets[1].TargetURL)
	assert.Equal(t, "Meet our team", targets[1].LinkText)
	assert.Equal(t, srv.URL+"/contact", targets[2].TargetURL)
}

func TestGeneric_ExtractJSONLD(t *testing.T) {
	srv := newSite(t, map[string]string{
		"/about/team": `<html><head><title>Team</title>
<script type="application/ld+json">{"@type":"Person","name":"Nadia Roy","jobTitle":"Financial Planner","email":"mailto:Nadia.Roy@example.com"}</script>
</head><body><h1>Acme team</h1></body></html>`,
	})
	g := newRegistry(t).For(model.FamilyGeneric)

	ex, err := g.Extract(context.Background(), newEnv(), model.DiscoveryTarget{TargetURL: srv.URL + "/about/team"})
	require.NoError(t, err)
	assert.Equal(t, "Acme team", ex.TeamName)
	require.Len(t, ex.People, 1)
	assert.Equal(t, "Nadia Roy", ex.People[0].Name)
	assert.Equal(t, "Financial Planner", ex.People[0].Role)
	assert.Equal(t, []string{"nadia.roy@example.com"}, ex.People[0].Emails)
	assert.Equal(t, model.SourceJSONLD, ex.People[0].Source)
	assert.Equal(t, "Acme team", ex.People[0].TeamName)
}

func TestGeneric_ExtractNobody(t *testing.T) {
	srv := newSite(t, map[string]string{"/": `<html><body><p>Nothing here.</p></body></html>`})
	g := newRegistry(t).For(model.FamilyGeneric)

	ex, err := g.Extract(context.Background(), newEnv(), model.DiscoveryTarget{TargetURL: srv.URL + "/"})
	require.NoError(t, err)
	assert.Empty(t, ex.People)
	assert.Equal(t, []string{srv.URL + "/"}, ex.Pages)
}
