// Package server runs the request loop behind the editor's chess mode: one
// request line in, at most one reply line out, strictly in order.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/dwcoates/pgn-mode/pkg/chess"
	"github.com/dwcoates/pgn-mode/pkg/engine"
	"github.com/dwcoates/pgn-mode/pkg/protocol"
)

// Version is reported by -version.
const Version = "0.50"

// Server owns the engine pool and answers requests read from a stream.
type Server struct {
	pool       *engine.Pool
	dispatcher Dispatcher
	defaults   protocol.Options
	log        zerolog.Logger
}

// New creates a server answering requests with the standard commands.
// Request options start from defaults.
func New(pool *engine.Pool, defaults protocol.Options, log zerolog.Logger) *Server {
	return &Server{
		pool:       pool,
		dispatcher: NewDispatcher(pool),
		defaults:   defaults,
		log:        log,
	}
}

// Serve reads requests from r until end of input and writes replies to w.
// The engine pool is closed before Serve returns.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	defer s.Close()

	in := bufio.NewReader(r)
	out := bufio.NewWriter(w)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read request: %w", err)
		}
		if line == "" {
			s.log.Debug().Msg("end of input")
			return nil
		}
		if err != nil {
			// unterminated last line
			line += "\n"
		}

		reply, ok := s.Handle(line)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return fmt.Errorf("write reply: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("write reply: %w", err)
		}
	}
}

// Handle processes one raw request line. It returns the reply and true, or
// false when the line produces no reply: keep-alives and dropped requests.
// Every dropped request is logged.
func (s *Server) Handle(line string) (reply string, ok bool) {
	if protocol.IsKeepAlive(line) {
		return "", false
	}

	reply, err := s.handle(line)
	if err != nil {
		s.log.Warn().Err(err).Str("input", line).Msg("request dropped")
		return "", false
	}
	return reply, true
}

func (s *Server) handle(line string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("request handler panic: %v", r)
		}
	}()

	req, err := protocol.ParseRequest(line)
	if err != nil {
		return "", err
	}
	h, err := s.dispatcher.Lookup(req.Command)
	if err != nil {
		return "", err
	}
	opts, err := protocol.ParseOptions(req.RawOptions, s.defaults)
	if err != nil {
		return "", err
	}
	if err := req.CheckPayloadType(); err != nil {
		return "", err
	}

	gs, err := chess.LoadPayload(req.Payload)
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("command", req.Command).Str("fen", gs.FEN()).Msg("handling request")
	return h(gs, opts)
}

// Close shuts down every engine the server started. It is safe to call
// more than once and from another goroutine.
func (s *Server) Close() error {
	err := s.pool.Close()
	if err != nil {
		s.log.Warn().Err(err).Msg("engine cleanup incomplete")
	}
	return err
}
