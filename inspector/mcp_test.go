package inspector

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/csspeek/inspector/event"
)

var testImpl = &mcp.Implementation{Name: "inspector-test", Version: "0.1.0"}

func connect(t *testing.T, c *Controller) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testImpl, nil)
	c.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	session, err := mcp.NewClient(testImpl, nil).Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func callText(t *testing.T, s *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := s.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("%s: empty content", name)
	}
	return res.Content[0].(*mcp.TextContent).Text, res.IsError
}

func TestMCP_ListTools(t *testing.T) {
	s := connect(t, New(loadPage(t)))
	res, err := s.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{"inspector_start", "inspector_stop", "inspector_scan", "inspector_state", "inspector_clear_storage"} {
		if !got[name] {
			t.Errorf("missing tool %s", name)
		}
	}
}

func TestMCP_ScanAndState(t *testing.T) {
	s := connect(t, New(loadPage(t)))

	text, isErr := callText(t, s, "inspector_scan", nil)
	if isErr {
		t.Fatalf("scan error: %s", text)
	}
	var res CommandResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatal(err)
	}
	if res.Command != "run-color-scan" || res.Event == nil || res.Event.Type != event.KindScanResult {
		t.Fatalf("result: %+v", res)
	}
	ev, err := res.Event.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if ev.(event.ScanResult).Total == 0 {
		t.Error("no colors")
	}

	callText(t, s, "inspector_start", nil)
	text, _ = callText(t, s, "inspector_state", nil)
	var st State
	if err := json.Unmarshal([]byte(text), &st); err != nil {
		t.Fatal(err)
	}
	if !st.Active || !st.Detecting {
		t.Errorf("state after start: %+v", st)
	}
	callText(t, s, "inspector_stop", nil)
	text, _ = callText(t, s, "inspector_state", nil)
	if !strings.Contains(text, `"active":false`) {
		t.Errorf("state after stop: %s", text)
	}
}

func TestMCP_Errors(t *testing.T) {
	s := connect(t, New(docOnly{loadPage(t)}))

	if text, isErr := callText(t, s, "inspector_start", nil); !isErr || !strings.Contains(text, "no interactive page") {
		t.Errorf("start without page: isErr=%v text=%s", isErr, text)
	}
	if text, isErr := callText(t, s, "inspector_clear_storage", map[string]any{"targets": []string{"indexeddb"}}); !isErr {
		t.Errorf("bad target accepted: %s", text)
	}
	text, isErr := callText(t, s, "inspector_clear_storage", map[string]any{"targets": []string{"local"}})
	if isErr {
		t.Fatalf("clear storage: %s", text)
	}
	if !strings.Contains(text, `storage-cleared`) {
		t.Errorf("clear storage result: %s", text)
	}
}
