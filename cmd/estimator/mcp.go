package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/logger"
	"github.com/rbsiding/estimator/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	http    string
	session string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the wizard as MCP tools",
	Long: `Serve one estimator session as Model Context Protocol tools so an agent
can walk a customer through the estimate.

By default the server speaks MCP over stdio. With --http it serves the
streamable HTTP transport at http://<addr>/mcp instead.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpFlags.http, "http", "", "Serve over HTTP on this address (e.g. 127.0.0.1:8080)")
	mcpCmd.Flags().StringVar(&mcpFlags.session, "session", "", "Session name used in event subjects")
}

func runMCP(cmd *cobra.Command, args []string) error {
	rt, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("session") {
		rt.cfg.Events.Session = mcpFlags.session
	}

	b, err := startBus(rt.cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to start events: %w", err)
	}
	defer b.Close()

	opts := rt.options()
	opts.Observer = b.observer()
	srv := mcpserver.New(estimator.New(opts), rt.cfg.CompanyName, version,
		mcpserver.WithContactHook(b.acknowledge),
		mcpserver.WithFootageLimits(rt.cfg.MaxSquareFootage, rt.cfg.FootageStep))

	if mcpFlags.http == "" {
		logger.Info("Serving MCP over stdio")
		return srv.ServeStdio()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := srv.Start(ctx, mcpFlags.http); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening at %s\n", srv.URL())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
