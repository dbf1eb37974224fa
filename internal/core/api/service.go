// Package api implements the inspector service: editing sessions over
// documents whose exposed fields are decided by the rule engine.
package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/beatforge/fieldgate/internal/core/config"
	"github.com/beatforge/fieldgate/internal/core/store"
	"github.com/beatforge/fieldgate/internal/game"
	"github.com/beatforge/fieldgate/internal/rules"
	"github.com/beatforge/fieldgate/internal/types"
)

// InspectorService holds open documents and applies field reads and writes.
// Thin orchestration over the rules, fieldpath, game and store packages.
type InspectorService struct {
	engine  *rules.Engine
	catalog *game.Catalog
	cfg     *config.InspectorConfig
	store   *store.Store
	logger  *slog.Logger

	mu   sync.RWMutex
	docs map[types.DocumentID]*document

	journalMutexes map[string]*sync.Mutex
	journalLock    sync.Mutex
}

// document is one open editing session. The root is held by value, so
// writes into nested structs must be carried back up the chain.
type document struct {
	mu       sync.Mutex
	typeName string
	value    any
	revision int64
}

// Option configures an InspectorService.
type Option func(*InspectorService)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *InspectorService) {
		s.logger = logger
	}
}

// WithStore enables SaveDocument, LoadDocument and the edit history.
func WithStore(st *store.Store) Option {
	return func(s *InspectorService) {
		s.store = st
	}
}

// NewInspectorService creates service instance with dependencies.
// Auto-creates the edit journal directory and applies cfg.RulesFile.
func NewInspectorService(engine *rules.Engine, catalog *game.Catalog, cfg *config.InspectorConfig, opts ...Option) (*InspectorService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}

	s := &InspectorService{
		engine:         engine,
		catalog:        catalog,
		cfg:            cfg,
		logger:         slog.Default(),
		docs:           make(map[types.DocumentID]*document),
		journalMutexes: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Join(cfg.DataDir, "edits"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create edit journal directory: %w", err)
	}

	if cfg.RulesFile != "" {
		rf, err := rules.LoadRuleFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		if err := engine.ApplyRuleFile(rf, catalog.ResolveType); err != nil {
			return nil, fmt.Errorf("rule file %s: %w", cfg.RulesFile, err)
		}
		s.logger.Info("applied rule file", "path", cfg.RulesFile, "entries", len(rf.Rules))
	}

	return s, nil
}

// Catalog returns the document catalog.
func (s *InspectorService) Catalog() *game.Catalog {
	return s.catalog
}

// session returns the open document with the given id.
func (s *InspectorService) session(id types.DocumentID) (*document, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrDocumentNotFound, id)
	}
	return doc, nil
}

// getJournalMutex returns mutex for given filename, creating if not exists.
// Per-file mutex protects concurrent appends to the same daily journal.
func (s *InspectorService) getJournalMutex(filename string) *sync.Mutex {
	s.journalLock.Lock()
	defer s.journalLock.Unlock()

	if _, ok := s.journalMutexes[filename]; !ok {
		s.journalMutexes[filename] = &sync.Mutex{}
	}
	return s.journalMutexes[filename]
}
