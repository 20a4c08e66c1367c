// CLAUDE:SUMMARY CLI entry point for the inspector: color scans, live inspection, control server, storage clearing.
// Command inspector inspects CSS colors and fonts of web pages.
//
// Usage:
//
//	inspector scan https://example.com          # static color scan (no JS)
//	inspector scan --live https://example.com   # color scan in Chrome
//	inspector inspect https://example.com       # live hover inspection, events on stdout
//	inspector serve https://example.com         # HTTP control API + MCP
//	inspector clear-storage --remote ws://...   # clear storage of the open tab
//	inspector state --state /var/lib/csspeek.db # shared detecting flag
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hazyhaar/csspeek/detectstate"
	"github.com/hazyhaar/csspeek/inspector"
)

var rootCmd = &cobra.Command{
	Use:           "inspector",
	Short:         "Inspect CSS fonts and colors of web pages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	globalFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(scanCmd, inspectCmd, serveCmd, clearStorageCmd, stateCmd)
}

func globalFlags(pf *pflag.FlagSet) {
	pf.String("config", "", "path to inspector.yaml config file")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("remote", "", "DevTools WebSocket URL of a running Chrome")
	pf.Bool("headful", false, "launch Chrome headful on an Xvfb display")
	pf.Bool("stealth", false, "apply stealth evasions to new tabs")
	pf.String("state", "", "sqlite file holding the shared detecting flag")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "inspector:", err)
		os.Exit(1)
	}
}

// loadConfig reads --config (or the defaults) and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*inspector.Config, error) {
	cfg := inspector.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = inspector.LoadConfigFile(path); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("remote") {
		cfg.Browser.Remote, _ = f.GetString("remote")
	}
	if headful, _ := f.GetBool("headful"); headful {
		cfg.Browser.Mode = "headful"
	}
	if stealth, _ := f.GetBool("stealth"); stealth {
		cfg.Browser.Stealth = true
	}
	if f.Changed("state") {
		cfg.State.Path, _ = f.GetString("state")
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// openFlag returns the detecting flag, persisted when a state path is
// configured. The returned func releases the store.
func openFlag(cfg *inspector.Config, logger *slog.Logger) (*detectstate.Flag, func(), error) {
	if cfg.State.Path == "" {
		return detectstate.New(nil, detectstate.WithLogger(logger)), func() {}, nil
	}
	store, err := detectstate.OpenSQLite(cfg.State.Path, logger)
	if err != nil {
		return nil, nil, err
	}
	return detectstate.New(store, detectstate.WithLogger(logger)), func() { store.Close() }, nil
}

// humanWriter is where tables and status lines go: stderr whenever a
// stdout sink is writing JSON lines, stdout otherwise.
func humanWriter(sinks []inspector.SinkConfig) io.Writer {
	for _, sc := range sinks {
		if sc.Type == "stdout" {
			return os.Stderr
		}
	}
	return os.Stdout
}

// setup is the shared prologue of every subcommand.
func setup(cmd *cobra.Command) (*inspector.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
