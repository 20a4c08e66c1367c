// CLAUDE:SUMMARY Blocks images, fonts and media on inspected tabs; stylesheets always load.
package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// blockable maps config names to CDP resource types.
var blockable = map[string]proto.NetworkResourceType{
	"images": proto.NetworkResourceTypeImage,
	"fonts":  proto.NetworkResourceTypeFont,
	"media":  proto.NetworkResourceTypeMedia,
}

// blockSet resolves configured names, dropping unknown ones and anything
// that would change computed styles. It returns the rejected names.
func blockSet(names []string) (map[proto.NetworkResourceType]bool, []string) {
	set := make(map[proto.NetworkResourceType]bool, len(names))
	var rejected []string
	for _, n := range names {
		if t, ok := blockable[strings.ToLower(n)]; ok {
			set[t] = true
			continue
		}
		rejected = append(rejected, n)
	}
	return set, rejected
}

// applyResourceBlocking fails matching requests before they hit the
// network. The returned router must be stopped with the page.
func applyResourceBlocking(page *rod.Page, set map[proto.NetworkResourceType]bool) *rod.HijackRouter {
	router := page.HijackRequests()
	router.MustAdd("*", func(h *rod.Hijack) {
		if set[h.Request.Type()] {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}
