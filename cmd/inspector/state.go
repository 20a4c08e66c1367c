package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/csspeek/inspector"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the shared detecting flag or a running server's state",
	Example: `  inspector state --state /var/lib/csspeek.db
  inspector state --server http://127.0.0.1:7878`,
	Args: cobra.NoArgs,
	RunE: runState,
}

func init() {
	stateCmd.Flags().String("server", "", "base URL of a running inspector serve")
}

func runState(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"/state", nil)
		if err != nil {
			return err
		}
		resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
		if err != nil {
			return fmt.Errorf("query server: %w", err)
		}
		defer resp.Body.Close()
		var st inspector.State
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			return fmt.Errorf("decode state: %w", err)
		}
		printState(st)
		return nil
	}

	if cfg.State.Path == "" {
		return errors.New("--state or --server is required")
	}
	flag, closeFlag, err := openFlag(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFlag()
	if err := flag.Load(ctx); err != nil {
		return err
	}
	printState(inspector.State{Detecting: flag.Get()})
	return nil
}

func printState(st inspector.State) {
	tableData := pterm.TableData{{"Property", "Value"}}
	tableData = append(tableData, []string{"Detecting", yesNo(st.Detecting)})
	tableData = append(tableData, []string{"Session active", yesNo(st.Active)})
	if sm := st.LastSample; sm != nil {
		tableData = append(tableData,
			[]string{"Font", sm.FontSize + " (" + sm.FontRem + "), weight " + sm.FontWeight},
			[]string{"Text", sm.TextColor + " | " + sm.TextHex},
			[]string{"Background", sm.BgColor + " | " + sm.BgHex},
		)
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func yesNo(v bool) string {
	if v {
		return pterm.Green("yes")
	}
	return "no"
}
