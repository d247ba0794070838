package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/model"
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

func testConfig() *config.Config {
	return &config.Config{
		Fetch: config.FetchConfig{
			TimeoutSecs:     5,
			MaxAttempts:     1,
			BackoffStepMs:   1,
			CacheMaxEntries: 64,
		},
		Build:  config.BuildConfig{MaxTargets: 80, FollowSubpages: true},
		Export: config.ExportConfig{Format: "csv", Schema: "minimal"},
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
	}
}

var acmePages = map[string]string{
	"/about": `<html><body><h1>Acme Advisory</h1>
<a href="/about/team">Meet our team</a>
<a href="/contact">Contact us</a>
</body></html>`,
	"/about/team": `<html><head><title>Team</title>
<script type="application/ld+json">{"@type":"Person","name":"Nadia Roy","jobTitle":"Financial Planner","email":"mailto:nadia.roy@example.com"}</script>
</head><body><h1>Acme team</h1></body></html>`,
}

func sampleResult() *model.RunResult {
	started := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	return &model.RunResult{
		RunID:      "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Records:    2,
		Rows: []model.CanonicalRow{{
			IdentityKey: "email:jane.doe@example.com",
			TeamName:    "Smith Group",
			Name:        "Jane Doe",
			Role:        "Wealth Advisor",
			Email:       "jane.doe@example.com",
			Phone:       "514-555-0100",
			Source:      model.SourceHeading,
			Merged:      2,
		}},
		Errors: []model.RunError{{
			Stage:     model.StageExtract,
			TargetURL: "https://example.com/broken/",
			Message:   "fetch: status 500",
		}},
	}
}
