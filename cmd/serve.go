package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
	flagServeMaxBatch     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluator over HTTP with an SSE event stream",
	Long: "Endpoints:\n" +
		"  GET  /healthz\n" +
		"  GET  /v1/categories\n" +
		"  GET  /v1/status\n" +
		"  GET  /v1/events\n" +
		"  GET  /v1/stream          (server-sent events)\n" +
		"  POST /v1/evaluate\n" +
		"  POST /v1/evaluate/batch",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default server.addr from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	serveCmd.Flags().IntVar(&flagServeMaxBatch, "max-batch", 1000, "Max requests per batch call")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	addr := flagServeAddr
	if addr == "" {
		addr = appCfg.Server.Addr
	}

	svc := server.New(server.Config{
		Addr:         addr,
		MaxBodyBytes: appCfg.Server.MaxBodyBytes,
		BatchWorkers: appCfg.Server.BatchWorkers,
		EventsBuffer: flagServeEventsBuffer,
		MaxBatch:     flagServeMaxBatch,
	}, pipeline.Default(), logger.Named("server"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.String("op", "cmd.runServe"), zap.Error(err))
		return err
	}
	return nil
}
