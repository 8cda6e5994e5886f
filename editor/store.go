package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

// TemplateStore persists template snapshots. Implementations are
// expected to live outside this module (a database, a sync service);
// MemoryStore covers tests and single-process use.
type TemplateStore interface {
	SaveTemplate(ctx context.Context, t template.Template) error
	LoadTemplate(ctx context.Context, id string) (template.Template, error)
}

// MemoryStore is an in-memory TemplateStore. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]template.Template
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]template.Template)}
}

func (s *MemoryStore) SaveTemplate(ctx context.Context, t template.Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) LoadTemplate(ctx context.Context, id string) (template.Template, error) {
	if err := ctx.Err(); err != nil {
		return template.Template{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		return template.Template{}, bizdoc.E("editor.LoadTemplate",
			fmt.Errorf("template %q: %w", id, bizdoc.ErrTemplateNotFound))
	}
	return t.Clone(), nil
}

// RecordStore resolves the document records rendered into a template.
// Like TemplateStore, real implementations live outside this module.
type RecordStore interface {
	SaveRecord(ctx context.Context, d *record.Document) error
	LoadRecord(ctx context.Context, id string) (*record.Document, error)
}

// MemoryRecords is an in-memory RecordStore. Safe for concurrent use.
type MemoryRecords struct {
	mu   sync.RWMutex
	byID map[string]*record.Document
}

// NewMemoryRecords creates an empty record store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{byID: make(map[string]*record.Document)}
}

func (s *MemoryRecords) SaveRecord(ctx context.Context, d *record.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return bizdoc.E("editor.SaveRecord", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[d.ID] = d.Clone()
	return nil
}

func (s *MemoryRecords) LoadRecord(ctx context.Context, id string) (*record.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, bizdoc.E("editor.LoadRecord",
			fmt.Errorf("record %q: %w", id, bizdoc.ErrMissingRecord))
	}
	return d.Clone(), nil
}
