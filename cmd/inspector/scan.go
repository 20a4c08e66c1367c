package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/csspeek/inspector"
	"github.com/hazyhaar/csspeek/inspector/dom"
	"github.com/hazyhaar/csspeek/inspector/event"
)

var scanCmd = &cobra.Command{
	Use:   "scan <url|file>",
	Short: "List every distinct color used by a page",
	Long: `Scan a page for the colors of its computed text, background, border,
outline and shadow properties. Translucent colors are listed first.

Without --live the page is fetched over HTTP (or read from a file) and
styled from its own stylesheets; scripts do not run.`,
	Example: `  inspector scan https://example.com
  inspector scan --live -o json https://example.com
  inspector scan ./page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Bool("live", false, "load the page in Chrome")
	scanCmd.Flags().StringP("output", "o", "", "output format: json for the raw result")
	scanCmd.Flags().Bool("emit", false, "also send the result to the configured sinks")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	live, _ := cmd.Flags().GetBool("live")
	output, _ := cmd.Flags().GetString("output")
	emit, _ := cmd.Flags().GetBool("emit")

	page, closeHost, err := openHost(ctx, cfg, args[0], live, logger)
	if err != nil {
		return err
	}
	defer closeHost()

	var opts []inspector.Option
	opts = append(opts, inspector.WithLogger(logger))
	if emit {
		sinks, err := inspector.SinksFromConfig(cfg.Sinks, os.Stdout, logger)
		if err != nil {
			return err
		}
		opts = append(opts, inspector.WithSinks(sinks...))
		pterm.SetDefaultOutput(humanWriter(cfg.Sinks))
	}
	c := inspector.New(page, opts...)
	defer c.Close()

	ev, err := c.Handle(ctx, event.RunColorScan{})
	if err != nil {
		return err
	}
	res := ev.(event.ScanResult)

	if output == "json" {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	printScan(res)
	return nil
}

// openHost loads target as a static document, or in Chrome when live.
func openHost(ctx context.Context, cfg *inspector.Config, target string, live bool, logger *slog.Logger) (dom.Page, func(), error) {
	if live {
		l, err := inspector.OpenLive(ctx, cfg.Browser, target, logger)
		if err != nil {
			return nil, nil, err
		}
		return l.Page(), func() { l.Close() }, nil
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		page, err := inspector.FetchDocument(ctx, target, logger)
		if err != nil {
			return nil, nil, err
		}
		return page, func() {}, nil
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	page, err := inspector.LoadDocument(f, logger)
	if err != nil {
		return nil, nil, err
	}
	return page, func() {}, nil
}

func printScan(res event.ScanResult) {
	if res.Total == 0 {
		pterm.Warning.Printfln("No colors found (%d elements)", res.Elements)
		return
	}
	tableData := pterm.TableData{{"#", "Color", "Hex", "Class", "Property"}}
	for i, c := range res.Colors {
		class := string(c.Classification)
		if c.Classification == event.Translucent {
			class = pterm.Yellow(class)
		}
		tableData = append(tableData, []string{strconv.Itoa(i + 1), c.Value, c.Hex, class, c.Property})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	pterm.Println()
	pterm.Info.Printfln("%d colors (%d translucent, %d opaque) across %d elements",
		res.Total, res.Translucent, res.Opaque, res.Elements)
}
