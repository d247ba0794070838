package site

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/fetcher"
)

// ErrNoCandidate is returned by Probe when every candidate failed.
var ErrNoCandidate = errors.New("site: no candidate page could be fetched")

// Probe fetches candidates in order and returns the final URL of the first
// one that succeeds. Failures are expected and only logged.
func Probe(ctx context.Context, f fetcher.Fetcher, candidates []string) (string, error) {
	var lastErr error
	for _, c := range candidates {
		if c == "" {
			continue
		}
		page, err := f.Fetch(ctx, c)
		if err == nil {
			return page.FinalURL, nil
		}
		if ctx.Err() != nil {
			return "", eris.Wrap(ctx.Err(), "site: probe")
		}
		lastErr = err
		zap.L().Debug("probe candidate failed", zap.String("url", c), zap.Error(err))
	}
	if lastErr != nil {
		return "", eris.Wrapf(ErrNoCandidate, "last error: %v", lastErr)
	}
	return "", ErrNoCandidate
}
