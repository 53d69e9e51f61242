// Command protalign-server provides a REST API for protein local alignment.
//
// Usage:
//
//	protalign-server [options]
//
// Options:
//
//	-port        Port to listen on (default: 8080)
//	-host        Host to bind to (default: localhost)
//	-max-trials  Upper bound on permutation trials per request
//	-timeout     Per-request timeout
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/protalign-go/api/handlers"
	"github.com/aria-lang/protalign-go/internal/config"
	"github.com/dustin/go-humanize"
)

func main() {
	cfg := config.Default()
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	timeout := flag.Duration("timeout", 60*time.Second, "Per-request timeout")
	flag.IntVar(&cfg.MaxTrials, "max-trials", cfg.MaxTrials, "Upper bound on trials per request (0 = unbounded)")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v\n", err)
	}

	r := handlers.NewRouter(cfg, *timeout)

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>protalign API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>protalign API</h1>
    <p>Smith-Waterman local alignment of protein sequences with BLOSUM62.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/local</code>
        <p>Local alignment, with an optional permutation-test p-value.</p>
        <pre>{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "trials": 1000}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/score</code>
        <p>Best local alignment score only.</p>
        <pre>{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "gap_cost": -8}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/report</code>
        <p>Plain-text comparison report.</p>
        <pre>{"id1": "q", "id2": "r", "sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/sequence/validate</code>
        <p>Validate a protein sequence and report its composition.</p>
        <pre>{"sequence": "MKVLAAGIVG"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">GET</span> <code>/api/matrix/{a}/{b}</code>
        <p>BLOSUM62 score for a residue pair.</p>
    </div>
</body>
</html>`))
	})

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: *timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("protalign API server starting on http://%s (gap %d, max trials %s)\n",
		addr, cfg.GapCost, humanize.Comma(int64(cfg.MaxTrials)))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", addr, err)
	}

	<-done
	log.Println("Server stopped")
}
