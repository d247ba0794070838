package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

const directorySeed = `<html><body>
<nav><a href="/privacy">Privacy</a></nav>
<h2>Advisors</h2>
<ul>
  <li><a href="/jane.doe/">Jane Doe</a></li>
  <li><a href="https://other.example.org/x/">Elsewhere</a></li>
</ul>
<h2>Teams</h2>
<ul>
  <li><a href="/smith-group/">The Smith Group</a></li>
  <li><a href="/lee-team?ref=dir">Lee Team</a></li>
  <li><a href="/lee-team/about/us">Deep link</a></li>
  <li><a href="/smith-group/#top">The Smith Group</a></li>
</ul>
<h2>Resources</h2>
<a href="/forms/">Forms</a>
</body></html>`

const advisorPage = `<html><body><main>
<h1>Jane Doe</h1>
<p>Senior Wealth Advisor</p>
<p>Jane is part of <a href="/smith-group/">The Smith Group</a>.</p>
<p><a href="mailto:jane.doe@example.com">jane.doe@example.com</a></p>
</main></body></html>`

const smithTeamPage = `<html><head><title>The Smith Group</title></head><body>
<h1>The Smith Group</h1>
<div><p><a href="/jane.doe/">Jane Doe</a></p><p>Senior Wealth Advisor</p><p>514-555-0100</p></div>
<div><p>John Roe</p><p>Associate Advisor</p><p>john.roe@example.com</p></div>
<h2>Additional Specialists</h2>
<div><p>Paul Extra</p><p>Insurance Specialist</p><p>paul@example.com</p></div>
</body></html>`

const leeTeamPage = `<html><body>
<h1>Lee Team</h1>
<p>Amy Lee</p><p>Portfolio Manager</p><p>amy.lee@example.com</p>
</body></html>`

func directoryFixture(t *testing.T) string {
	srv := newSite(t, map[string]string{
		"/directory":    directorySeed,
		"/jane.doe/":    advisorPage,
		"/smith-group/": smithTeamPage,
		"/lee-team/":    leeTeamPage,
	})
	return srv.URL
}

func TestDirectory_DiscoverSections(t *testing.T) {
	base := directoryFixture(t)
	d := newRegistry(t).For(model.FamilyDirectory)

	targets, err := d.Discover(context.Background(), newEnv(), base+"/directory")
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.Equal(t, base+"/jane.doe/", targets[0].TargetURL)
	assert.Equal(t, model.KindAdvisor, targets[0].Kind)
	assert.Equal(t, "Jane Doe", targets[0].LinkText)

	assert.Equal(t, base+"/smith-group/", targets[1].TargetURL)
	assert.Equal(t, model.KindTeam, targets[1].Kind)
	assert.Equal(t, base+"/lee-team/", targets[2].TargetURL)
	assert.Equal(t, model.KindTeam, targets[2].Kind)

	for _, tg := range targets {
		assert.Equal(t, base+"/directory", tg.SeedURL)
		assert.Equal(t, model.FamilyDirectory, tg.Family)
		assert.True(t, tg.Include)
	}
}

func TestDirectory_DiscoverRootSeed(t *testing.T) {
	base := directoryFixture(t)
	d := newRegistry(t).For(model.FamilyDirectory)
	env := newEnv()

	targets, err := d.Discover(context.Background(), env, base+"/jane.doe/")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, model.KindAdvisor, targets[0].Kind)
	assert.Equal(t, base+"/jane.doe/", targets[0].TargetURL)

	targets, err = d.Discover(context.Background(), env, base+"/smith-group/")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, model.KindTeam, targets[0].Kind)
	assert.Equal(t, "The Smith Group", targets[0].LinkText)
}

func TestDirectory_DiscoverFetchError(t *testing.T) {
	base := directoryFixture(t)
	d := newRegistry(t).For(model.FamilyDirectory)
	_, err := d.Discover(context.Background(), newEnv(), base+"/missing")
	require.Error(t, err)
}

func TestDirectory_ExtractTeam(t *testing.T) {
	base := directoryFixture(t)
	d := newRegistry(t).For(model.FamilyDirectory)

	ex, err := d.Extract(context.Background(), newEnv(), model.DiscoveryTarget{
		TargetURL: base + "/smith-group/", Kind: model.KindTeam,
	})
	require.NoError(t, err)
	assert.Equal(t, "The Smith Group", ex.TeamName)
	assert.Equal(t, "smith-group", ex.TeamSlug)
	require.Len(t, ex.People, 2)

	jane := ex.People[0]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, base+"/jane.doe/", jane.ProfileURL)
	assert.Equal(t, []string{"514-555-0100"}, jane.Phones)
	assert.Equal(t, "The Smith Group", jane.TeamName)
	assert.Equal(t, base+"/smith-group/", jane.TeamRootURL)

	assert.Equal(t, "John Roe", ex.People[1].Name)
	assert.Equal(t, []string{"john.roe@example.com"}, ex.People[1].Emails)
}

func TestDirectory_ExtractAdvisor(t *testing.T) {
	base := directoryFixture(t)
	d := newRegistry(t).For(model.FamilyDirectory)

	ex, err := d.Extract(context.Background(), newEnv(), model.DiscoveryTarget{
		TargetURL: base + "/jane.doe/", Kind: model.KindAdvisor,
	})
	require.NoError(t, err)
	require.Len(t, ex.People, 1)

	jane := ex.People[0]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, "Senior Wealth Advisor", jane.Role)
	assert.Equal(t, []string{"jane.doe@example.com"}, jane.Emails)
	assert.Equal(t, base+"/jane.doe/", jane.ProfileURL)
	assert.Equal(t, "The Smith Group", jane.TeamName)
	assert.Equal(t, "smith-group", jane.TeamSlug)
	assert.Equal(t, model.SourceProfile, jane.Source)
}
