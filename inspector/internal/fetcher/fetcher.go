// CLAUDE:SUMMARY HTTP acquisition for static scans: GETs a page and its linked stylesheets, no browser.
// Package fetcher implements the HTTP-only acquisition path used when a
// color scan runs without a browser. Scripts are not executed.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the outcome of a page fetch.
type Result struct {
	URL         string
	HTML        []byte
	StyleSheets []string // linked stylesheet texts, document order
	StatusCode  int
}

// Fetcher performs HTTP GETs.
type Fetcher struct {
	client    *http.Client
	ua        string
	maxBody   int64
	maxSheets int
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.ua = ua }
}

// WithMaxStyleSheets caps how many linked stylesheets are fetched. Default: 32.
func WithMaxStyleSheets(n int) Option {
	return func(f *Fetcher) { f.maxSheets = n }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher with sensible defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		ua:        "Mozilla/5.0 (compatible; csspeek/1.0)",
		maxBody:   10 << 20,
		maxSheets: 32,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch GETs pageURL and then every stylesheet it links. A stylesheet that
// cannot be fetched is logged and skipped.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetcher: parse url: %w", err)
	}
	body, status, err := f.get(ctx, pageURL, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("fetcher: %s: status %d", pageURL, status)
	}

	res := &Result{URL: pageURL, HTML: body, StatusCode: status}
	links := StyleSheetLinks(body)
	if len(links) > f.maxSheets {
		f.logger.Warn("fetcher: stylesheet cap reached", "url", pageURL, "links", len(links), "max", f.maxSheets)
		links = links[:f.maxSheets]
	}
	for _, href := range links {
		ref, err := base.Parse(href)
		if err != nil {
			f.logger.Debug("fetcher: bad stylesheet href", "href", href, "error", err)
			continue
		}
		css, status, err := f.get(ctx, ref.String(), "text/css,*/*;q=0.1")
		if err != nil || status >= 400 {
			f.logger.Warn("fetcher: stylesheet skipped", "url", ref.String(), "status", status, "error", err)
			continue
		}
		res.StyleSheets = append(res.StyleSheets, string(css))
	}

	f.logger.Debug("fetcher: fetched",
		"url", pageURL, "status", status,
		"size", len(body), "stylesheets", len(res.StyleSheets))
	return res, nil
}

func (f *Fetcher) get(ctx context.Context, target, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("fetcher: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetcher: do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("fetcher: read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// StyleSheetLinks returns the href of every <link rel="stylesheet"> in
// document order.
func StyleSheetLinks(page []byte) []string {
	var out []string
	z := html.NewTokenizer(bytes.NewReader(page))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Link {
				continue
			}
			var rel, href string
			for _, a := range tok.Attr {
				switch a.Key {
				case "rel":
					rel = a.Val
				case "href":
					href = strings.TrimSpace(a.Val)
				}
			}
			if href != "" && hasToken(rel, "stylesheet") {
				out = append(out, href)
			}
		}
	}
}

func hasToken(list, tok string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, tok) {
			return true
		}
	}
	return false
}
