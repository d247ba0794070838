package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

const rosterSeed = `<html><body>
<h1>Montréal branch</h1>
<a href="/en/advisor/smith-team/our-team.html">Smith Team</a>
<a href="/en/advisor/jones/our-team">View profile</a>
<a href="/fr/advisor/lee/notre-equipe">Équipe Lee</a>
<a href="/en/advisor/smith-team/bio">Smith Team biography</a>
<a href="/privacy">Privacy</a>
</body></html>`

const rosterTeamPage = `<html><body>
<h1>Smith Team</h1>
<div class="card">
  <h3>Anne Martin</h3>
  <p>Investment Advisor</p>
  <a href="mailto:anne.martin@example.com">Email</a>
</div>
<div class="card">
  <h3>Marc Tremblay</h3>
  <p>Associate</p>
  <a href="tel:+15145550101">Call</a>
</div>
</body></html>`

func TestRoster_Discover(t *testing.T) {
	srv := newSite(t, map[string]string{
		"/en/branch/montreal":                  rosterSeed,
		"/en/advisor/smith-team/our-team.html": rosterTeamPage,
	})
	r := newRegistry(t).For(model.FamilyRoster)

	targets, err := r.Discover(context.Background(), newEnv(), srv.URL+"/en/branch/montreal")
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, srv.URL+"/en/advisor/smith-team/our-team.html", targets[0].TargetURL)
	assert.Equal(t, "Smith Team", targets[0].LinkText)
	assert.Equal(t, srv.URL+"/fr/advisor/lee/notre-equipe", targets[1].TargetURL)
	for _, tg := range targets {
		assert.Equal(t, model.FamilyRoster, tg.Family)
		assert.Equal(t, model.KindUnknown, tg.Kind)
	}
}

func TestRoster_DiscoverSeedIsTeamPage(t *testing.T) {
	srv := newSite(t, map[string]string{
		"/en/advisor/smith-team/our-team.html": rosterTeamPage,
	})
	r := newRegistry(t).For(model.FamilyRoster)

	targets, err := r.Discover(context.Background(), newEnv(), srv.URL+"/en/advisor/smith-team/our-team.html")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "Smith Team", targets[0].LinkText)
}

func TestRoster_DiscoverFallsBackToGeneric(t *testing.T) {
	srv := newSite(t, map[string]string{
		"/en": `<html><body><h1>Welcome</h1><a href="/en/our-team">Our team</a></body></html>`,
	})
	r := newRegistry(t).For(model.FamilyRoster)

	targets, err := r.Discover(context.Background(), newEnv(), srv.URL+"/en")
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, srv.URL+"/en", targets[0].TargetURL)
	assert.Equal(t, srv.URL+"/en/our-team", targets[1].TargetURL)
	assert.Equal(t, model.FamilyRoster, targets[1].Family)
}

func TestRoster_Extract(t *testing.T) {
	srv := newSite(t, map[string]string{
		"/en/advisor/smith-team/our-team.html": rosterTeamPage,
	})
	r := newRegistry(t).For(model.FamilyRoster)

	ex, err := r.Extract(context.Background(), newEnv(), model.DiscoveryTarget{
		TargetURL: srv.URL + "/en/advisor/smith-team/our-team.html",
	})
	require.NoError(t, err)
	assert.Equal(t, "smith-team", ex.TeamSlug)
	assert.Equal(t, "Smith Team", ex.TeamName)
	require.Len(t, ex.People, 2)

	assert.Equal(t, "Anne Martin", ex.People[0].Name)
	assert.Equal(t, "Investment Advisor", ex.People[0].Role)
	assert.Equal(t, []string{"anne.martin@example.com"}, ex.People[0].Emails)
	assert.Equal(t, "Marc Tremblay", ex.People[1].Name)
	assert.Equal(t, []string{"+15145550101"}, ex.People[1].Phones)
	for _, p := range ex.People {
		assert.Equal(t, "smith-team", p.TeamSlug)
		assert.Equal(t, srv.URL+"/en/advisor/smith-team/our-team.html", p.TeamPageURL)
		assert.Empty(t, p.ContactPageURL)
		assert.Equal(t, model.SourceHeading, p.Source)
	}
}

func TestRosterSlug(t *testing.T) {
	assert.Equal(t, "lee", rosterSlug("https://www.nbfwm.ca/fr/advisor/Lee/notre-equipe"))
	assert.Equal(t, "team-page", rosterSlug("https://example.com/team_page/"))
}
