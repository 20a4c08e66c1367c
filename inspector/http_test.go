package inspector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/csspeek/inspector/event"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHTTP_Commands(t *testing.T) {
	h := New(loadPage(t)).Handler()

	tests := []struct {
		name, path, body string
		code             int
		kind             event.Kind
	}{
		{"start", "/commands/start-inspection", "", 200, ""},
		{"stop", "/commands/stop-inspection", "", 200, ""},
		{"scan", "/commands/run-color-scan", "", 200, event.KindScanResult},
		{"clear all", "/commands/clear-storage", "", 200, event.KindStorageCleared},
		{"clear some", "/commands/clear-storage", `{"targets":["session"]}`, 200, event.KindStorageCleared},
		{"bad target", "/commands/clear-storage", `{"targets":["disk"]}`, 400, ""},
		{"bad body", "/commands/clear-storage", `{`, 400, ""},
		{"unknown", "/commands/reboot", "", 404, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, "POST", tc.path, tc.body)
			if w.Code != tc.code {
				t.Fatalf("code: got %d, want %d (%s)", w.Code, tc.code, w.Body)
			}
			if tc.code != 200 {
				return
			}
			var res CommandResult
			if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
				t.Fatal(err)
			}
			if tc.kind == "" {
				if res.Event != nil {
					t.Errorf("unexpected event %s", res.Event.Type)
				}
				return
			}
			if res.Event == nil || res.Event.Type != tc.kind {
				t.Errorf("event: %+v", res.Event)
			}
		})
	}
}

func TestHTTP_ClearSomeTargets(t *testing.T) {
	h := New(loadPage(t)).Handler()
	w := do(t, h, "POST", "/commands/clear-storage", `{"targets":["session"]}`)
	var res CommandResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	ev, err := res.Event.Decode()
	if err != nil {
		t.Fatal(err)
	}
	results := ev.(event.StorageCleared).Results
	if len(results) != 1 || results[0].Target != event.StorageSession {
		t.Errorf("results: %+v", results)
	}
}

func TestHTTP_NoPage(t *testing.T) {
	h := New(docOnly{loadPage(t)}).Handler()
	if w := do(t, h, "POST", "/commands/start-inspection", ""); w.Code != http.StatusConflict {
		t.Errorf("code: got %d", w.Code)
	}
}

func TestHTTP_State(t *testing.T) {
	c := New(loadPage(t))
	h := c.Handler()
	do(t, h, "POST", "/commands/start-inspection", "")

	w := do(t, h, "GET", "/state", "")
	if w.Code != 200 {
		t.Fatalf("code: %d", w.Code)
	}
	var st State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if !st.Active || !st.Live {
		t.Errorf("state: %+v", st)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	c.Close()
}
