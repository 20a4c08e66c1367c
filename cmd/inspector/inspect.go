package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/csspeek/inspector"
	"github.com/hazyhaar/csspeek/inspector/event"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [url]",
	Short: "Inspect fonts and colors under the pointer in Chrome",
	Long: `Open the page in Chrome and start live inspection. Events are written
to the configured sinks (stdout JSON lines by default) until a click freezes
a sample, Escape or a double click ends the session, or the command is
interrupted.

With --remote and no url, the first open tab of that Chrome is inspected.`,
	Example: `  inspector inspect --headful https://example.com
  inspector inspect --remote ws://127.0.0.1:9222/devtools/browser/<id>`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	var pageURL string
	if len(args) == 1 {
		pageURL = args[0]
	}

	flag, closeFlag, err := openFlag(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFlag()

	sinks, err := inspector.SinksFromConfig(cfg.Sinks, os.Stdout, logger)
	if err != nil {
		return err
	}
	pterm.SetDefaultOutput(humanWriter(cfg.Sinks))
	result := newOutcome()
	sinks = append(sinks, inspector.NewCallbackSink(result.record))

	live, err := inspector.OpenLive(ctx, cfg.Browser, pageURL, logger)
	if err != nil {
		return err
	}
	defer live.Close()

	c := inspector.New(live.Page(),
		inspector.WithLogger(logger),
		inspector.WithSinks(sinks...),
		inspector.WithFlag(flag),
		inspector.WithSessionConfig(cfg.Session),
	)
	defer c.Close()

	done := make(chan struct{})
	var once sync.Once
	cancel := flag.OnChange(func(detecting bool) {
		if !detecting {
			once.Do(func() { close(done) })
		}
	})
	defer cancel()

	if _, err := c.Handle(ctx, event.StartInspection{}); err != nil {
		return err
	}
	pterm.Info.Printfln("Inspecting %s: hover to sample, click to freeze, Escape to stop", live.URL())

	select {
	case <-result.done:
	case <-done:
	case <-ctx.Done():
		return nil
	}
	if msg, frozen := result.summary(); frozen {
		pterm.Success.Println(msg)
	} else {
		pterm.Info.Println(msg)
	}
	return nil
}

// outcome tracks how a session ended from the event it emitted.
type outcome struct {
	mu     sync.Mutex
	frozen *event.Sample
	ended  bool
	once   sync.Once
	done   chan struct{}
}

func newOutcome() *outcome {
	return &outcome{done: make(chan struct{})}
}

func (o *outcome) record(_ context.Context, ev event.Event) error {
	switch ev := ev.(type) {
	case event.SampleFreeze:
		o.mu.Lock()
		sm := ev.Sample
		o.frozen, o.ended = &sm, true
		o.mu.Unlock()
	case event.SessionEnd:
		o.mu.Lock()
		o.frozen, o.ended = nil, true
		o.mu.Unlock()
	default:
		return nil
	}
	o.once.Do(func() { close(o.done) })
	return nil
}

// summary describes the ending. frozen is true only when a SampleFreeze
// was emitted.
func (o *outcome) summary() (msg string, frozen bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case o.frozen != nil:
		return fmt.Sprintf("Frozen: %s %s on %s", o.frozen.FontSize, o.frozen.TextHex, o.frozen.BgHex), true
	case o.ended:
		return "Session ended without a frozen sample", false
	}
	return "Inspection stopped", false
}
