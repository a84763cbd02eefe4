// Command resolve-server exposes the core's observability surface
// (/metrics, /decisions) over HTTP, grounded on the teacher's
// cmd/web/main.go server-bootstrap pattern.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trackresolve/core/internal/config"
	"github.com/trackresolve/core/internal/obs"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP network address")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if _, err := config.Load(); err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	obs.NewMetrics(reg)
	server := obs.NewServer(reg, logger)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      server,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info(fmt.Sprintf("starting resolve-server at http://localhost%s", *addr))

	if err := srv.ListenAndServe(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
