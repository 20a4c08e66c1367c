// CLAUDE:SUMMARY dom.Page over a live Rod tab: computed styles and hit tests via CDP eval, input forwarded through a Runtime binding.
package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/csspeek/inspector/dom"
)

//go:embed page.js
var pageJS string

const bindingName = "__csspeek_input"

// node is an index into the in-page element registry.
type node int

// LivePage implements dom.Page on a live tab. Elements are addressed by
// registry indices kept in the page; a navigation invalidates them.
type LivePage struct {
	page   *rod.Page
	ctx    context.Context
	logger *slog.Logger

	mu       sync.Mutex
	subs     map[int]func(dom.Input)
	nextSub  int
	walks    int // Elements iterations in flight
	stopBind context.CancelFunc
}

var _ dom.Page = (*LivePage)(nil)

// NewLivePage installs the helper script (now and on every future
// document) and returns the page wrapper. ctx bounds every CDP call.
func NewLivePage(ctx context.Context, page *rod.Page, logger *slog.Logger) (*LivePage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := page.Context(ctx)
	if _, err := p.EvalOnNewDocument("(" + pageJS + ")()"); err != nil {
		return nil, fmt.Errorf("browser: install helper on new document: %w", err)
	}
	if _, err := p.Eval(pageJS); err != nil {
		return nil, fmt.Errorf("browser: install helper: %w", err)
	}
	return &LivePage{
		page:   p,
		ctx:    ctx,
		logger: logger,
		subs:   make(map[int]func(dom.Input)),
	}, nil
}

// eval runs a helper expression. Failures are logged and reported as a
// nil result: a vanished node or a navigation mid-call is not an error the
// inspection can act on.
func (lp *LivePage) eval(js string, args ...any) *proto.RuntimeRemoteObject {
	res, err := lp.page.Eval(js, args...)
	if err != nil {
		lp.logger.Debug("browser: eval failed", "error", err)
		return nil
	}
	return res
}

func (lp *LivePage) nodeResult(js string, args ...any) dom.Node {
	res := lp.eval(js, args...)
	if res == nil {
		return nil
	}
	i := res.Value.Int()
	if i < 0 {
		return nil
	}
	return node(i)
}

func asNode(n dom.Node) (int, bool) {
	i, ok := n.(node)
	return int(i), ok
}

// Root implements dom.Document.
func (lp *LivePage) Root() dom.Node {
	return lp.nodeResult(`() => __csspeek.id(document.documentElement)`)
}

// Body implements dom.Document.
func (lp *LivePage) Body() dom.Node {
	return lp.nodeResult(`() => __csspeek.id(document.body)`)
}

// Parent implements dom.Document.
func (lp *LivePage) Parent(n dom.Node) dom.Node {
	i, ok := asNode(n)
	if !ok {
		return nil
	}
	return lp.nodeResult(`(i) => {
		const el = __csspeek.nodes[i];
		return __csspeek.id(el && el.parentElement);
	}`, i)
}

// IsRoot implements dom.Document.
func (lp *LivePage) IsRoot(n dom.Node) bool {
	i, ok := asNode(n)
	if !ok {
		return false
	}
	res := lp.eval(`(i) => __csspeek.nodes[i] === document.documentElement`, i)
	return res != nil && res.Value.Bool()
}

// Elements implements dom.Document. The element list is captured once,
// when iteration starts. Node ids handed out by the walk stay valid until
// it ends.
func (lp *LivePage) Elements() iter.Seq[dom.Node] {
	return func(yield func(dom.Node) bool) {
		lp.beginWalk()
		defer lp.endWalk()
		res := lp.eval(`() => Array.from(document.getElementsByTagName("*"), (el) => __csspeek.id(el))`)
		if res == nil {
			return
		}
		for _, v := range res.Value.Arr() {
			if !yield(node(v.Int())) {
				return
			}
		}
	}
}

// ComputedStyle implements dom.Document.
func (lp *LivePage) ComputedStyle(n dom.Node, prop string) string {
	i, ok := asNode(n)
	if !ok {
		return ""
	}
	res := lp.eval(`(i, p) => {
		const el = __csspeek.nodes[i];
		return el ? getComputedStyle(el).getPropertyValue(p) : "";
	}`, i, prop)
	if res == nil {
		return ""
	}
	return res.Value.Str()
}

// ElementFromPoint implements dom.Document.
func (lp *LivePage) ElementFromPoint(x, y float64) dom.Node {
	return lp.nodeResult(`(x, y) => __csspeek.id(document.elementFromPoint(x, y))`, x, y)
}

// ProbeBackgroundColor implements dom.Document by attaching a throwaway
// element and reading its computed background back.
func (lp *LivePage) ProbeBackgroundColor(value string) string {
	res := lp.eval(`(v) => __csspeek.probe(v)`, value)
	if res == nil {
		return ""
	}
	return res.Value.Str()
}

// SetCursor implements dom.Page.
func (lp *LivePage) SetCursor(cursor string) {
	lp.eval(`(c) => { if (document.body) document.body.style.cursor = c; }`, cursor)
}

// NewOverlay implements dom.Page.
func (lp *LivePage) NewOverlay() dom.Overlay {
	res := lp.eval(`() => __csspeek.overlayCreate()`)
	if res == nil {
		return &liveOverlay{lp: lp, key: -1}
	}
	return &liveOverlay{lp: lp, key: res.Value.Int()}
}

type liveOverlay struct {
	lp  *LivePage
	key int
}

func (o *liveOverlay) Show(c dom.OverlayContent) {
	o.lp.eval(`(k, t, b, i) => __csspeek.overlayShow(k, t, b, i)`, o.key, c.TextColor, c.BackgroundColor, c.Info)
}

func (o *liveOverlay) MoveTo(x, y float64) {
	o.lp.eval(`(k, x, y) => __csspeek.overlayMove(k, x, y)`, o.key, x, y)
}

func (o *liveOverlay) Remove() {
	o.lp.eval(`(k) => __csspeek.overlayRemove(k)`, o.key)
}

// Subscribe implements dom.Page. The first subscriber attaches the
// capture listeners and starts the binding reader; the last one to leave
// detaches them.
func (lp *LivePage) Subscribe(h func(dom.Input)) func() {
	lp.mu.Lock()
	id := lp.nextSub
	lp.nextSub++
	lp.subs[id] = h
	first := len(lp.subs) == 1
	lp.mu.Unlock()

	if first {
		lp.listen()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			lp.mu.Lock()
			delete(lp.subs, id)
			last := len(lp.subs) == 0
			lp.mu.Unlock()
			if last {
				lp.unlisten()
			}
		})
	}
}

func (lp *LivePage) listen() {
	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(lp.page); err != nil {
		lp.logger.Warn("browser: addBinding failed (may already exist)", "error", err)
	}

	ctx, cancel := context.WithCancel(lp.ctx)
	lp.mu.Lock()
	lp.stopBind = cancel
	lp.mu.Unlock()

	box := newInbox()
	go box.run(ctx, lp.dispatch)

	wait := lp.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}
		in, err := decodeInput(e.Payload)
		if err != nil {
			lp.logger.Debug("browser: bad input payload", "error", err)
			return
		}
		box.push(in)
	})
	go wait()

	lp.eval(`() => __csspeek.listen()`)
}

func (lp *LivePage) unlisten() {
	lp.eval(`() => __csspeek.unlisten()`)
	lp.mu.Lock()
	if lp.stopBind != nil {
		lp.stopBind()
		lp.stopBind = nil
	}
	lp.mu.Unlock()
	lp.releaseIfIdle()
}

func (lp *LivePage) beginWalk() {
	lp.mu.Lock()
	lp.walks++
	lp.mu.Unlock()
}

func (lp *LivePage) endWalk() {
	lp.mu.Lock()
	lp.walks--
	lp.mu.Unlock()
	lp.releaseIfIdle()
}

// idleLocked reports whether no caller can still hold a node id: no walk
// is running and no session is subscribed.
func (lp *LivePage) idleLocked() bool {
	return lp.walks == 0 && len(lp.subs) == 0
}

// releaseIfIdle empties the in-page node registry so elements it indexed
// can be collected. mu is held across the call so no walk or subscriber
// starts handing out ids that the release would void.
func (lp *LivePage) releaseIfIdle() {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.idleLocked() {
		lp.eval(`() => __csspeek.release()`)
	}
}

func (lp *LivePage) dispatch(in dom.Input) {
	lp.mu.Lock()
	ids := slices.Sorted(maps.Keys(lp.subs))
	hs := make([]func(dom.Input), 0, len(ids))
	for _, id := range ids {
		hs = append(hs, lp.subs[id])
	}
	lp.mu.Unlock()
	for _, h := range hs {
		h(in)
	}
}

// inputMsg is the JSON sent by the page listeners.
type inputMsg struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
	Key    string  `json:"key"`
}

func decodeInput(payload string) (dom.Input, error) {
	var m inputMsg
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, err
	}
	switch m.Type {
	case "move":
		return dom.PointerMove{X: m.X, Y: m.Y}, nil
	case "click":
		return dom.Click{Button: m.Button}, nil
	case "dblclick":
		return dom.DoubleClick{Button: m.Button}, nil
	case "key":
		return dom.KeyDown{Key: m.Key}, nil
	}
	return nil, fmt.Errorf("unknown input type %q", m.Type)
}
