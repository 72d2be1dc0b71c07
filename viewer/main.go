// Package main implements the gridpath web visualizer.
//
// It serves a canvas-based grid painter and a websocket endpoint. All
// connected browsers share one grid: cell edits and search results broadcast
// to everyone.
package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kmorrill/gridpath/grid"
	"github.com/kmorrill/gridpath/logging"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:8080", "HTTP listen address")
	rows := flag.Int("rows", 20, "Grid rows (1-255)")
	cols := flag.Int("cols", 30, "Grid columns (1-255)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(logging.NewLineHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	g, err := grid.New(*rows, *cols)
	if err != nil {
		log.Fatalf("Bad grid size: %v", err)
	}

	s := newServer(g, logger)
	srv := &http.Server{
		Addr:              *listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("viewer listening", "addr", "http://"+*listen, "rows", *rows, "cols", *cols)
	log.Fatal(srv.ListenAndServe())
}
