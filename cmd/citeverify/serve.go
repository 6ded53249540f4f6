// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/citeverify/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve verification, fixing, and PDF extraction over HTTP",
	Long: `Serve starts the HTTP API:

  POST /api/verify        {"citation": "...", "email": "..."}
  POST /api/fix-citation  {"citation": "..."}
  POST /api/upload-pdf    multipart form with a "file" field
  GET  /api/history       ?email=&status=&q=&limit=
  GET  /healthz

Every verification status, including fake and not_found, returns 200.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, buildOptions{history: true, fixer: true})
	if err != nil {
		return err
	}
	defer app.Close()

	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = app.cfg.Server.Addr
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMaxUploadBytes(app.cfg.Server.MaxUploadBytes),
	}
	if app.history != nil {
		opts = append(opts, server.WithHistory(app.history))
	}
	return server.New(app.verifier, app.fixer, opts...).Run(ctx, addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")

	rootCmd.AddCommand(serveCmd)
}
