// Package scrape holds page-level guards shared by discovery and fetching:
// anti-bot block detection and glob-based path exclusion.
package scrape
