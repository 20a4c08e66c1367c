package inspector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hazyhaar/csspeek/inspector/dom"
	"github.com/hazyhaar/csspeek/inspector/internal/browser"
	"github.com/hazyhaar/csspeek/inspector/internal/fetcher"
	"github.com/hazyhaar/csspeek/inspector/internal/htmldoc"
)

// LoadDocument parses an HTML document into a static host. styleSheets are
// extra stylesheet texts applied before the document's own.
func LoadDocument(r io.Reader, logger *slog.Logger, styleSheets ...string) (dom.Page, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d, err := htmldoc.Load(r, htmldoc.WithLogger(logger), htmldoc.WithStyleSheets(styleSheets...))
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FetchDocument GETs pageURL and its linked stylesheets into a static host.
// Scripts do not run; use OpenLive for script-built pages.
func FetchDocument(ctx context.Context, pageURL string, logger *slog.Logger) (dom.Page, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res, err := fetcher.New(fetcher.WithLogger(logger)).Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("inspector: fetch: %w", err)
	}
	return LoadDocument(bytes.NewReader(res.HTML), logger, res.StyleSheets...)
}

// Live is a browser tab wrapped as an inspection host.
type Live struct {
	mgr   *browser.Manager
	tab   *browser.Tab
	page  *browser.LivePage
	owned bool // tab opened by us, closed on Close
}

// OpenLive starts (or connects to) Chrome and opens pageURL. With a remote
// browser and an empty pageURL, the first open tab is attached instead.
// ctx bounds the lifetime of every CDP call made through the host.
func OpenLive(ctx context.Context, cfg BrowserConfig, pageURL string, logger *slog.Logger) (*Live, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode, err := browser.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if pageURL == "" && cfg.Remote == "" {
		return nil, errors.New("inspector: a page url is required without a remote browser")
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL:        cfg.Remote,
		Mode:             mode,
		Stealth:          cfg.Stealth,
		ResourceBlocking: cfg.ResourceBlocking,
		XvfbDisplay:      cfg.XvfbDisplay,
		Logger:           logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		mgr.Close()
		return nil, fmt.Errorf("inspector: start browser: %w", err)
	}

	l := &Live{mgr: mgr}
	if pageURL == "" {
		l.tab, err = browser.AttachTab(mgr)
	} else {
		l.tab, err = browser.OpenTab(ctx, mgr, pageURL)
		l.owned = true
	}
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("inspector: open tab: %w", err)
	}

	l.page, err = browser.NewLivePage(ctx, l.tab.Page, logger)
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("inspector: live page: %w", err)
	}
	logger.Info("inspector: live host ready", "url", l.tab.URL, "attached", !l.owned)
	return l, nil
}

// Page returns the host. It also implements StorageClearer.
func (l *Live) Page() dom.Page { return l.page }

// URL returns the tab URL at open time.
func (l *Live) URL() string { return l.tab.URL }

// Close closes the tab when it was opened by OpenLive, then the browser.
func (l *Live) Close() error {
	var err error
	if l.owned && l.tab != nil {
		err = l.tab.Close()
	}
	if cerr := l.mgr.Close(); err == nil {
		err = cerr
	}
	return err
}
