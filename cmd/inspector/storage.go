package main

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/csspeek/inspector"
	"github.com/hazyhaar/csspeek/inspector/event"
)

var clearStorageCmd = &cobra.Command{
	Use:   "clear-storage [url]",
	Short: "Clear cookies, sessionStorage and localStorage of a page",
	Long: `Clear site storage through Chrome. Each target is cleared once and
reports success or its error.

With --remote and no url, the first open tab of that Chrome is cleared.`,
	Example: `  inspector clear-storage --remote ws://127.0.0.1:9222/devtools/browser/<id>
  inspector clear-storage --targets local,session https://example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClearStorage,
}

func init() {
	clearStorageCmd.Flags().StringSlice("targets", nil, "cookies, session, local (default all)")
	clearStorageCmd.Flags().StringP("output", "o", "", "output format: json for raw results")
}

func runClearStorage(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	names, _ := cmd.Flags().GetStringSlice("targets")
	output, _ := cmd.Flags().GetString("output")
	targets, err := event.ParseStorageTargets(names)
	if err != nil {
		return err
	}
	var pageURL string
	if len(args) == 1 {
		pageURL = args[0]
	}

	live, err := inspector.OpenLive(ctx, cfg.Browser, pageURL, logger)
	if err != nil {
		return err
	}
	defer live.Close()

	c := inspector.New(live.Page(), inspector.WithLogger(logger))
	defer c.Close()
	ev, err := c.Handle(ctx, event.ClearStorage{Targets: targets})
	if err != nil {
		return err
	}
	results := ev.(event.StorageCleared).Results

	if output == "json" {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	tableData := pterm.TableData{{"Target", "Status"}}
	for _, r := range results {
		status := pterm.Green("Cleared")
		if !r.Success {
			status = pterm.Red(r.Error)
		}
		tableData = append(tableData, []string{string(r.Target), status})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	return nil
}
