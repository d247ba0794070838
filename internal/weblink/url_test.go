package weblink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://Example.com/a/b?x=1#frag", "https://example.com/a/b"},
		{"https://example.com/a/", "https://example.com/a/"},
		{"  https://example.com/p?  ", "https://example.com/p"},
		{"https://example.com/#top", "https://example.com/"},
		{"https://example.com", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestSameDomain(t *testing.T) {
	assert.True(t, SameDomain("https://EXAMPLE.com/a", "https://example.com/b"))
	assert.False(t, SameDomain("https://example.com/a", "https://other.com/a"))
	assert.False(t, SameDomain("mailto:a@example.com", "https://example.com"))
	assert.False(t, SameDomain("", ""))
}

func TestResolve(t *testing.T) {
	base := "https://example.com/team/index.html"
	assert.Equal(t, "https://example.com/team/jane", Resolve(base, "jane?ref=1"))
	assert.Equal(t, "https://example.com/contact", Resolve(base, "/contact#form"))
	assert.Equal(t, "", Resolve(base, "mailto:jane@example.com"))
	assert.Equal(t, "", Resolve(base, "javascript:void(0)"))
	assert.Equal(t, "", Resolve(base, "   "))
}

func TestSegmentsAndRoot(t *testing.T) {
	u := "https://ca.example.com/jane.doe/team?x=1"
	assert.Equal(t, []string{"jane.doe", "team"}, Segments(u))
	assert.Equal(t, 2, Depth(u))
	assert.Equal(t, "jane.doe", FirstSegment(u))
	assert.Equal(t, "https://ca.example.com/jane.doe/", RootURL(u))
	assert.Equal(t, "https://ca.example.com/", RootURL("https://ca.example.com"))
	assert.Equal(t, "https://ca.example.com/", SiteRoot(u))
	assert.Empty(t, FirstSegment("https://ca.example.com/"))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "https://example.com/smith/our-team", Join("https://example.com/smith/", "our-team"))
	assert.Equal(t, "https://example.com/smith/our-team", Join("https://example.com/smith", "/our-team"))
	assert.Equal(t, "https://example.com/web/smith/contact", Join("https://example.com/", "web/smith/contact"))
}

func TestTeamSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://x.com/web/Smith-Team/our-team", "smith-team"},
		{"https://x.com/the_smith__group/", "the-smith-group"},
		{"https://x.com/Lee%20Wealth/", "lee-wealth"},
		{"https://x.com/", ""},
		{"https://x.com/web/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TeamSlug(tt.in))
		})
	}
}
