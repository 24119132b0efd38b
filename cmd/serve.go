package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/config"
	"github.com/pulumi/events-mcp/internal/instrumentation"
	"github.com/pulumi/events-mcp/internal/logging"
	"github.com/pulumi/events-mcp/internal/resources"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/event_tools"
	"github.com/pulumi/events-mcp/internal/tools/group_tools"
	"github.com/pulumi/events-mcp/internal/tools/luma_tools"
	"github.com/pulumi/events-mcp/internal/tools/member_tools"
	"github.com/pulumi/events-mcp/internal/tools/platform_tools"
	"github.com/pulumi/events-mcp/internal/tools/search_tools"
	"github.com/pulumi/events-mcp/internal/tools/venue_tools"
)

// serveOptions holds the flags for the serve command.
type serveOptions struct {
	debug          bool
	transport      string
	httpAddr       string
	yolo           bool
	callbackAddr   string
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Meetup and Luma
event management tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (event creation,
  editing, deletion, venue creation).

Authentication:
  Meetup uses OAuth. Set PULUMI_EVENTS_MEETUP_CLIENT_ID and
  PULUMI_EVENTS_MEETUP_CLIENT_SECRET; the server opens the authorization
  page in a browser on first use and completes the login on the local
  callback endpoint. Luma uses PULUMI_EVENTS_LUMA_API_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8081", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Enable write operations (event creation, editing, deletion). Default is read-only mode.")
	cmd.Flags().StringVar(&opts.callbackAddr, "callback-addr", "", "OAuth callback listen address, host:port (default: from PULUMI_EVENTS_SERVER_HOST/PORT)")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (non-stdio transports only)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

// applyCallbackAddr overrides the callback listen address from the flag.
// The redirect URI follows the override unless explicitly configured.
func applyCallbackAddr(settings *config.Settings, addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid callback address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return fmt.Errorf("invalid callback port %q", portStr)
	}

	settings.ServerHost = host
	settings.ServerPort = port
	if os.Getenv("PULUMI_EVENTS_MEETUP_REDIRECT_URI") == "" {
		settings.MeetupRedirectURI = fmt.Sprintf("http://%s:%d%s", host, port, server.CallbackPath)
	}
	return nil
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.Setup(opts.debug)

	settings := config.Load()
	if opts.callbackAddr != "" {
		if err := applyCallbackAddr(settings, opts.callbackAddr); err != nil {
			return err
		}
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.Enabled = opts.metricsEnabled
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if opts.transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.transport != "stdio" && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Create server context with both platform providers registered
	serverContext, err := server.NewServerContext(shutdownCtx, settings, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.TokenStore().SetRefreshHook(func(success bool) {
			provider.Metrics().RecordTokenRefresh(context.Background(), success)
		})
	}

	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if opts.transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// The callback server always runs so that an interactive Meetup login
	// started from any tool call has somewhere to land.
	health := server.NewHealthChecker(serverContext)
	callbackServer := server.NewCallbackServer(serverContext, health)
	go func() {
		if err := callbackServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("oauth callback server failed", logging.Err(err))
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := callbackServer.Shutdown(ctx); err != nil {
			log.Printf("Error during callback server shutdown: %v", err)
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("events-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	// readOnly is the inverse of yolo
	readOnly := !opts.yolo

	if opts.transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, opts.httpAddr)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		log.Printf("Starting MCP server with streamable-http transport on %s", addr)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Platform",
			register: func() error {
				return platform_tools.RegisterPlatformTools(mcpSrv, ctx)
			},
		},
		{
			name: "Groups",
			register: func() error {
				return group_tools.RegisterGroupTools(mcpSrv, ctx)
			},
		},
		{
			name: "Events",
			register: func() error {
				return event_tools.RegisterEventTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Members",
			register: func() error {
				return member_tools.RegisterMemberTools(mcpSrv, ctx)
			},
		},
		{
			name: "Search",
			register: func() error {
				return search_tools.RegisterSearchTools(mcpSrv, ctx)
			},
		},
		{
			name: "Venues",
			register: func() error {
				return venue_tools.RegisterVenueTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Luma",
			register: func() error {
				return luma_tools.RegisterLumaTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Platform Resources",
			register: func() error {
				return resources.RegisterPlatformResources(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}
