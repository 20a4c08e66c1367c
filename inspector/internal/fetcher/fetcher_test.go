package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStyleSheetLinks(t *testing.T) {
	page := []byte(`<html><head>
<link rel="stylesheet" href="/a.css">
<link rel="preload" href="/font.woff2">
<link rel="alternate stylesheet" href="b.css"/>
<link rel="STYLESHEET" href=" c.css ">
</head></html>`)
	got := StyleSheetLinks(page)
	want := []string{"/a.css", "b.css", "c.css"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("links: got %v, want %v", got, want)
	}
}

func TestFetch_WithStyleSheets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		w.Write([]byte(`<html><head><link rel="stylesheet" href="site.css"><link rel="stylesheet" href="/missing.css"></head><body></body></html>`))
	})
	mux.HandleFunc("/page/site.css", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`body { color: red; }`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := New().Fetch(context.Background(), srv.URL+"/page/")
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status: %d", res.StatusCode)
	}
	if len(res.StyleSheets) != 1 || res.StyleSheets[0] != "body { color: red; }" {
		t.Errorf("stylesheets: %q", res.StyleSheets)
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	if _, err := New().Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected error on 404")
	}
}

func TestFetch_StyleSheetCap(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".css") {
			hits++
			w.Write([]byte(`p{}`))
			return
		}
		w.Write([]byte(`<link rel=stylesheet href=1.css><link rel=stylesheet href=2.css><link rel=stylesheet href=3.css>`))
	}))
	defer srv.Close()

	res, err := New(WithMaxStyleSheets(2)).Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatal(err)
	}
	if hits != 2 || len(res.StyleSheets) != 2 {
		t.Errorf("hits=%d sheets=%d, want 2", hits, len(res.StyleSheets))
	}
}
