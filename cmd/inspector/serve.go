package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/csspeek/inspector"
)

var serveCmd = &cobra.Command{
	Use:   "serve [url]",
	Short: "Serve the HTTP control API and MCP tools",
	Long: `Open a host and accept commands over HTTP and MCP.

The host is a Chrome tab on url (or the first tab of --remote). With
--static the url or file is loaded without a browser: scans work, storage
clearing reports failures.

HTTP routes: POST /commands/{name}, GET /state, /mcp (streamable MCP).
With --mcp-stdio, MCP is served on stdin/stdout and HTTP is disabled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().Bool("static", false, "load the page without a browser")
	serveCmd.Flags().Bool("mcp-stdio", false, "serve MCP on stdin/stdout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	static, _ := cmd.Flags().GetBool("static")
	stdio, _ := cmd.Flags().GetBool("mcp-stdio")
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	var target string
	if len(args) == 1 {
		target = args[0]
	}
	if static && target == "" {
		return errors.New("--static needs a url or file")
	}

	flag, closeFlag, err := openFlag(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFlag()
	go func() {
		if err := flag.Watch(ctx, cfg.State.WatchInterval); err != nil && ctx.Err() == nil {
			logger.Warn("inspector: state watch stopped", "error", err)
		}
	}()

	// Events go to stdout only when stdout is not the MCP channel.
	sinkCfgs := cfg.Sinks
	if stdio {
		sinkCfgs = nil
		for _, sc := range cfg.Sinks {
			if sc.Type != "stdout" {
				sinkCfgs = append(sinkCfgs, sc)
			}
		}
	}
	sinks, err := inspector.SinksFromConfig(sinkCfgs, os.Stdout, logger)
	if err != nil {
		return err
	}

	page, closeHost, err := openHost(ctx, cfg, target, !static, logger)
	if err != nil {
		return err
	}
	defer closeHost()

	c := inspector.New(page,
		inspector.WithLogger(logger),
		inspector.WithSinks(sinks...),
		inspector.WithFlag(flag),
		inspector.WithSessionConfig(cfg.Session),
	)
	defer c.Close()

	mcpSrv := mcp.NewServer(&mcp.Implementation{Name: "csspeek-inspector", Version: "1.0.0"}, nil)
	c.RegisterMCP(mcpSrv)

	if stdio {
		logger.Info("inspector: MCP on stdio")
		return mcpSrv.Run(ctx, &mcp.StdioTransport{})
	}

	r := chi.NewRouter()
	r.Mount("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpSrv }, nil))
	r.Mount("/", c.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("inspector: HTTP listening", "addr", cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
