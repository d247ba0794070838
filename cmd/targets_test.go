package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

func TestLoadSeeds_FileAndArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.txt")
	require.NoError(t, os.WriteFile(path, []byte("# branches\nhttps://a.example.com/\n\nnot a url\n"), 0o644))

	seeds, errs, err := loadSeeds(path, nil, []string{"https://b.example.com/", "https://a.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com/", "https://b.example.com/"}, seeds)
	require.Len(t, errs, 1)
	assert.Equal(t, "not a url", errs[0].TargetURL)
	assert.Equal(t, model.StageDiscover, errs[0].Stage)
}

func TestLoadSeeds_Stdin(t *testing.T) {
	seeds, errs, err := loadSeeds("-", strings.NewReader("https://a.example.com/\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com/"}, seeds)
	assert.Empty(t, errs)
}

func TestLoadSeeds_MissingFile(t *testing.T) {
	_, _, err := loadSeeds(filepath.Join(t.TempDir(), "nope.txt"), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open seeds file")
}

func TestReadTargetList_Curated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`run_id: run-1
seeds:
  - https://example.com/advisors/
targets:
  - branch_seed_url: https://example.com/advisors/
    target_url: https://example.com/smith-group/
    link_text: Smith Group
    target_kind: team
    family: directory
    include: true
  - branch_seed_url: https://example.com/advisors/
    target_url: https://example.com/careers/
    target_kind: whatever
    family: directory
    include: false
`), 0o644))

	list, err := readTargetList(path)
	require.NoError(t, err)
	assert.Equal(t, "run-1", list.RunID)
	require.Len(t, list.Targets, 2)
	assert.Equal(t, model.KindTeam, list.Targets[0].Kind)
	assert.Equal(t, model.KindUnknown, list.Targets[1].Kind)
	assert.Equal(t, model.FamilyDirectory, list.Targets[0].Family)
	assert.Len(t, list.Included(0), 1)
}

func TestReadTargetList_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets: [unclosed"), 0o644))

	_, err := readTargetList(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse targets file")
}

func TestWriteTargetList(t *testing.T) {
	var buf bytes.Buffer
	err := writeTargetList(&buf, model.TargetList{
		RunID: "run-1",
		Targets: []model.DiscoveryTarget{{
			TargetURL: "https://example.com/smith-group/",
			Kind:      model.KindTeam,
			Family:    model.FamilyDirectory,
			Include:   true,
		}},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "target_url: https://example.com/smith-group/")
	assert.Contains(t, out, "include: true")
	assert.NotContains(t, out, "errors:")
}

func TestWriteTargetFile_ThenBuildReadsIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, writeTargetFile(path, model.TargetList{
		Targets: []model.DiscoveryTarget{{TargetURL: "https://example.com/a/", Kind: model.KindAdvisor, Include: true}},
		Errors:  []model.RunError{{Stage: model.StageDiscover, TargetURL: "https://down.example.com/", Message: "fetch: status 503"}},
	}))

	list, err := readTargetList(path)
	require.NoError(t, err)
	require.Len(t, list.Targets, 1)
	assert.Equal(t, model.KindAdvisor, list.Targets[0].Kind)
	require.Len(t, list.Errors, 1)
	assert.Equal(t, "fetch: status 503", list.Errors[0].Message)
}
