package browser

import (
	"context"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/csspeek/inspector/event"
)

// ClearStorage clears each target once and reports per-target outcomes.
// Failures are reported, never retried.
func (lp *LivePage) ClearStorage(ctx context.Context, targets []event.StorageTarget) []event.StorageResult {
	p := lp.page.Context(ctx)
	out := make([]event.StorageResult, 0, len(targets))
	for _, t := range targets {
		var err error
		switch t {
		case event.StorageCookies:
			err = proto.NetworkClearBrowserCookies{}.Call(p)
		case event.StorageSession:
			_, err = p.Eval(`() => sessionStorage.clear()`)
		case event.StorageLocal:
			_, err = p.Eval(`() => localStorage.clear()`)
		default:
			out = append(out, event.StorageResult{Target: t, Error: "unknown storage target"})
			continue
		}
		r := event.StorageResult{Target: t, Success: err == nil}
		if err != nil {
			r.Error = err.Error()
			lp.logger.Warn("browser: clear storage failed", "target", t, "error", err)
		}
		out = append(out, r)
	}
	return out
}
