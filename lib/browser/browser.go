package browser

import (
	"context"
	"regexp"
)

// Browser performs the page-level HTTP work the scrapers need: opening
// pages, filling and submitting forms, following links. It stands in
// for what a user's browser does during a portal login, and is an
// interface so scraper logic can run against a test double.
//
// A Browser holds one cookie session and is not safe for concurrent
// use.
type Browser interface {
	Open(ctx context.Context, url string) (Page, error)
	// Close releases the underlying connections. It is safe to call
	// regardless of whether prior operations succeeded.
	Close() error
}

type Page interface {
	// URL is the final url of the page after redirects.
	URL() string
	Body() string
	FirstForm() (Form, error)
	FindLink(pattern *regexp.Regexp) (Link, error)
}

type Form interface {
	// Value reads a field's current value, hidden fields included.
	Value(name string) (string, bool)
	Has(name string) bool
	Set(name, value string)
	Submit(ctx context.Context) (Page, error)
}

type Link interface {
	Href() string
	Follow(ctx context.Context) (Page, error)
}
