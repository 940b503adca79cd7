package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// SpawnFunc starts a new engine for an executable path.
type SpawnFunc func(path string) (Analyzer, error)

// UCISpawner returns a SpawnFunc starting real UCI engine processes.
func UCISpawner(log zerolog.Logger) SpawnFunc {
	return func(path string) (Analyzer, error) {
		return NewEngine(path, log)
	}
}

// Pool owns at most one live engine per executable path. Entries are
// created lazily and replaced in place when found dead; nothing is removed
// until Close.
type Pool struct {
	spawn SpawnFunc
	log   zerolog.Logger

	mu      sync.Mutex
	engines map[string]Analyzer
	spawned []Analyzer
	closed  bool

	closeOnce sync.Once
	closeErr  error
}

// NewPool creates an empty pool.
func NewPool(spawn SpawnFunc, log zerolog.Logger) *Pool {
	return &Pool{
		spawn:   spawn,
		log:     log,
		engines: make(map[string]Analyzer),
	}
}

// Instantiate returns a live engine for path. A new engine is started on
// first use. Every call probes the engine; if the probe fails the engine is
// replaced by a fresh one at the same path.
func (p *Pool) Instantiate(path string) (Analyzer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrEngineClosed
	}

	e, ok := p.engines[path]
	if !ok {
		var err error
		if e, err = p.start(path); err != nil {
			return nil, err
		}
	}

	if err := e.Ping(); err != nil {
		p.log.Warn().Err(err).Str("engine", path).Msg("engine not responding, restarting")
		if cerr := e.Close(); cerr != nil {
			p.log.Debug().Err(cerr).Str("engine", path).Msg("close dead engine")
		}
		if e, err = p.start(path); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (p *Pool) start(path string) (Analyzer, error) {
	e, err := p.spawn(path)
	if err != nil {
		return nil, fmt.Errorf("spawn engine %s: %w", path, err)
	}
	p.engines[path] = e
	p.spawned = append(p.spawned, e)
	p.log.Info().Str("engine", path).Msg("engine started")
	return e, nil
}

// Len returns the number of engine paths in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.engines)
}

// Close terminates every engine the pool ever started, in parallel. A
// failure to stop one engine is logged and does not stop the others; the
// failures are returned joined. Close is safe to call more than once.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		engines := p.spawned
		p.mu.Unlock()

		errs := make([]error, len(engines))
		var wg sync.WaitGroup
		for i, e := range engines {
			wg.Add(1)
			go func(i int, e Analyzer) {
				defer wg.Done()
				errs[i] = e.Close()
			}(i, e)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				p.log.Warn().Err(err).Msg("engine shutdown failed")
			}
		}
		p.closeErr = errors.Join(errs...)
		p.log.Debug().Int("engines", len(engines)).Msg("engine pool closed")
	})
	return p.closeErr
}
