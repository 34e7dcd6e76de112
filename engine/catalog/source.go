package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nathoo/topdown/types"
)

// LoadFunc reads the authoring tables. It runs at most once per Source.
type LoadFunc func(ctx context.Context) (Tables, error)

// Source loads the catalog in the background and announces readiness on
// the game loop. Load runs on its own goroutine; Poll, WhenReady and every
// lookup must be called from the game loop only.
type Source struct {
	load   LoadFunc
	logger *slog.Logger

	once sync.Once
	done chan struct{}
	cat  *Catalog // written before done is closed
	err  error

	ready     bool
	listeners []func(*Catalog)
}

// NewSource creates a source around a table loader.
func NewSource(load LoadFunc, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{load: load, logger: logger, done: make(chan struct{})}
}

// Static returns a source that is already ready with t.
func Static(t Tables) *Source {
	s := NewSource(func(context.Context) (Tables, error) { return t, nil }, nil)
	s.Start(context.Background())
	<-s.done
	s.Poll()
	return s
}

// Start begins loading. Later calls do nothing.
func (s *Source) Start(ctx context.Context) {
	s.once.Do(func() {
		go func() {
			defer close(s.done)
			var t Tables
			if s.load != nil {
				var err error
				t, err = s.load(ctx)
				if err != nil {
					s.err = fmt.Errorf("loading catalog: %w", err)
					t = Tables{}
				}
			}
			s.cat = Build(t)
		}()
	})
}

// Poll publishes a finished load. Listeners registered with WhenReady run
// synchronously, once. Returns true on the call that made the source ready.
func (s *Source) Poll() bool {
	if s.ready {
		return false
	}
	select {
	case <-s.done:
	default:
		return false
	}
	s.ready = true
	if s.err != nil {
		s.logger.Error("catalog load failed, continuing with an empty catalog", "error", s.err)
	} else {
		s.logger.Info("catalog ready", "items", s.cat.Len())
	}
	listeners := s.listeners
	s.listeners = nil
	for _, fn := range listeners {
		s.notify(fn)
	}
	return true
}

// Wait blocks until the load finishes, then polls.
func (s *Source) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		s.Poll()
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WhenReady runs fn once the catalog is ready. If it already is, fn runs now.
func (s *Source) WhenReady(fn func(*Catalog)) {
	if fn == nil {
		return
	}
	if s.ready {
		s.notify(fn)
		return
	}
	s.listeners = append(s.listeners, fn)
}

func (s *Source) notify(fn func(*Catalog)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("catalog ready listener panicked", "panic", r)
		}
	}()
	fn(s.cat)
}

// Ready reports whether the catalog has been published.
func (s *Source) Ready() bool {
	return s.ready
}

// Catalog returns the published catalog, or nil before readiness.
func (s *Source) Catalog() *Catalog {
	if !s.ready {
		return nil
	}
	return s.cat
}

// Err returns the load error, if any, once ready.
func (s *Source) Err() error {
	if !s.ready {
		return nil
	}
	return s.err
}

// Item looks up an entry. Returns false before readiness.
func (s *Source) Item(id string) (types.CatalogEntry, bool) {
	return s.Catalog().Item(id)
}

// Bench looks up a bench. Returns false before readiness.
func (s *Source) Bench(id string) (types.BenchDef, bool) {
	return s.Catalog().Bench(id)
}

// RecipesForBench returns a bench's recipes, empty before readiness.
func (s *Source) RecipesForBench(id string) []types.Recipe {
	return s.Catalog().RecipesForBench(id)
}

// Recipe looks up a recipe. Returns false before readiness.
func (s *Source) Recipe(id string) (types.Recipe, bool) {
	return s.Catalog().Recipe(id)
}
