package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmorales/chat-relay/internal/chat"
)

func main() {
	addr := flag.String("addr", ":3040", "chat listen address")
	maxClients := flag.Int("max-clients", 5, "maximum concurrent clients")
	httpAddr := flag.String("http-addr", ":9090", "address for /metrics and /ws")
	logFile := flag.String("log-file", "log.txt", "append-only activity log file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	activity := chat.NewActivityLog(*logFile, logger)

	srv := chat.NewServer(*addr, *maxClients, activity, logger)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/ws", chat.WebsocketHandler(srv))
	httpSrv := &http.Server{Addr: *httpAddr, Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	srv.Stop()
}
