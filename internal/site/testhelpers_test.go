package site

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/scrape"
)

// newSite serves each page at exactly its path; anything else is a 404.
func newSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newEnv() *Env {
	return &Env{
		Fetcher: fetcher.New(fetcher.Options{
			Timeout:         5 * time.Second,
			BackoffStep:     time.Millisecond,
			CacheMaxEntries: 64,
		}),
		Exclude:        scrape.NewPathMatcher(nil),
		FollowSubpages: true,
	}
}

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(DefaultConfig())
	require.NoError(t, err)
	return reg
}
