// Package fetcher issues the polite, retried, cached page GETs that every
// discovery and extraction step goes through.
package fetcher

import (
	"context"
	"fmt"
)

// Fetcher retrieves one HTML page.
type Fetcher interface {
	// Fetch returns the decoded page for url, following redirects.
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Page is a fetched, charset-normalized HTML document.
type Page struct {
	HTML string
	// FinalURL is the post-redirect URL. Same-page logic keys off it.
	FinalURL  string
	Status    int
	FromCache bool
}

// FetchError is a network or HTTP failure that survived every retry.
type FetchError struct {
	URL        string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d after %d attempt(s): %v", e.URL, e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
