package pipeline

import (
	"bufio"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/model"
)

// ReadSeeds reads one seed URL per line. Blank lines and lines starting with
// '#' are skipped, duplicates are dropped and invalid URLs are returned as
// discover-stage errors.
func ReadSeeds(r io.Reader) ([]string, []model.RunError, error) {
	var (
		seeds []string
		errs  []model.RunError
	)
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, model.RunError{
				Stage:     model.StageDiscover,
				TargetURL: line,
				Message:   "not an absolute http(s) URL",
			})
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		seeds = append(seeds, line)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: read seeds")
	}
	return seeds, errs, nil
}
