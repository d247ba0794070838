package site

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	srv := newSite(t, map[string]string{"/team/notre-equipe": "<html>équipe</html>"})
	env := newEnv()

	got, err := Probe(context.Background(), env.Fetcher, []string{
		"",
		srv.URL + "/team/our-team",
		srv.URL + "/team/notre-equipe",
		srv.URL + "/team/equipe",
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/team/notre-equipe", got)
}

func TestProbe_NoCandidate(t *testing.T) {
	srv := newSite(t, map[string]string{})
	env := newEnv()

	_, err := Probe(context.Background(), env.Fetcher, []string{srv.URL + "/a", srv.URL + "/b"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoCandidate))

	_, err = Probe(context.Background(), env.Fetcher, nil)
	assert.True(t, eris.Is(err, ErrNoCandidate))
}
