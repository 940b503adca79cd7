// Command pgn-server is the long-running helper behind the editor's chess
// mode. It reads one request per line on standard input and writes one
// reply per line on standard output until standard input is closed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dwcoates/pgn-mode/pkg/config"
	"github.com/dwcoates/pgn-mode/pkg/engine"
	"github.com/dwcoates/pgn-mode/pkg/logging"
	"github.com/dwcoates/pgn-mode/pkg/server"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Println(server.Version)
		return
	}

	// 1. Configuration and diagnostics
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgn-server: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgn-server: bad log_level: %v\n", err)
		os.Exit(1)
	}

	// 2. Engine pool, owned by the server for its whole life
	pool := engine.NewPool(engine.UCISpawner(log), log)
	srv := server.New(pool, cfg.Defaults, log)

	// 3. Abrupt termination still tries to stop the engines
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-sigs
		log.Info().Str("signal", sig.String()).Msg("stopping engines")
		srv.Close()
		os.Exit(1)
	}()

	// 4. Request loop
	log.Debug().Str("version", server.Version).Msg("pgn-server listening on stdin")
	if err := srv.Serve(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("server stopped")
		srv.Close()
		os.Exit(1)
	}
}
