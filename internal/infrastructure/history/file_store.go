// Package history persists the recently opened document list in
// pdf-history.json and, optionally, every open in a SQLite log.
package history

import (
	"errors"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/paths"
	"github.com/doeshing/readerstate/internal/infrastructure/store"
	"github.com/doeshing/readerstate/internal/pkg/logger"
	"github.com/doeshing/readerstate/internal/ports"
)

// errUnchanged aborts an Update without writing.
var errUnchanged = errors.New("history unchanged")

// FileStore implements ports.HistoryRepository on top of a durable JSON store.
type FileStore struct {
	store    *store.Store[domain.History]
	log      ports.Logger
	recorder ports.OpenRecorder
}

// NewFileStore builds a history store whose file is located by resolver.
func NewFileStore(resolver *paths.Resolver, log ports.Logger) *FileStore {
	if log == nil {
		log = logger.Nop()
	}
	s := store.New(domain.HistoryStoreName, resolver.Locator(domain.HistoryStoreName), emptyHistory, store.Options{Logger: log})
	return &FileStore{store: s.WithNormalizer(normalize).WithValidator(domain.History.Validate), log: log}
}

// WithRecorder registers rec to be told about every recorded open.
func (f *FileStore) WithRecorder(rec ports.OpenRecorder) *FileStore {
	f.recorder = rec
	return f
}

// Get returns the stored list, or an empty one when it cannot be read.
func (f *FileStore) Get() domain.History {
	return f.store.Load()
}

// Set replaces the stored list. Duplicate paths are dropped (first one wins)
// and the list is capped at domain.MaxHistoryItems.
func (f *FileStore) Set(h domain.History) error {
	if err := f.store.Save(h); err != nil {
		return &domain.HistoryError{Op: "save", Err: err}
	}
	return nil
}

// Exists reports whether pdf-history.json is present.
func (f *FileStore) Exists() bool {
	return f.store.Exists()
}

// Init makes sure pdf-history.json exists and returns its content.
func (f *FileStore) Init() domain.History {
	return f.store.EnsureInitialized()
}

// Inspect reads the list without side effects.
func (f *FileStore) Inspect() store.LoadResult[domain.History] {
	return f.store.Inspect()
}

// RecordOpen moves entry to the front of the list, replacing any entry with
// the same path. The read-modify-write runs under the store lock.
func (f *FileStore) RecordOpen(entry domain.HistoryEntry) error {
	_, err := f.record("record", entry, (*domain.History).Touch)
	return err
}

// Reopen records entry like RecordOpen, except that an entry already stored
// for the same path keeps its id. The lookup happens under the store lock.
func (f *FileStore) Reopen(entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	return f.record("reopen", entry, func(h *domain.History, e domain.HistoryEntry) { h.Reopen(e) })
}

func (f *FileStore) record(op string, entry domain.HistoryEntry, apply func(*domain.History, domain.HistoryEntry)) (domain.HistoryEntry, error) {
	if err := entry.Validate(); err != nil {
		return domain.HistoryEntry{}, &domain.HistoryError{Op: op, Err: err}
	}
	stored := entry
	err := f.store.Update(func(h *domain.History) error {
		apply(h, entry)
		stored = h.Items[0]
		return nil
	})
	if err != nil {
		return domain.HistoryEntry{}, &domain.HistoryError{Op: op, Err: err}
	}

	if f.recorder != nil {
		if err := f.recorder.Record(stored); err != nil {
			f.log.Warn("open log record failed", map[string]interface{}{"path": stored.Path, "error": err.Error()})
		}
	}
	return stored, nil
}

// Remove deletes the entry with the given id. Nothing is written when no
// entry matches.
func (f *FileStore) Remove(id string) (bool, error) {
	err := f.store.Update(func(h *domain.History) error {
		if !h.RemoveByID(id) {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, &domain.HistoryError{Op: "remove", Err: err}
	}
	return true, nil
}

// Clear empties the list.
func (f *FileStore) Clear() error {
	err := f.store.Update(func(h *domain.History) error {
		h.Items = []domain.HistoryEntry{}
		return nil
	})
	if err != nil {
		return &domain.HistoryError{Op: "clear", Err: err}
	}
	return nil
}

// Status reports the on-disk state of the file.
func (f *FileStore) Status() domain.StoreStatus {
	return f.store.Status()
}

// Path returns the resolved file path, or "" when it cannot be determined.
func (f *FileStore) Path() string {
	loc, err := f.store.Location()
	if err != nil {
		return ""
	}
	return loc.Path
}

func emptyHistory() domain.History {
	return domain.History{Items: []domain.HistoryEntry{}}
}

func normalize(h *domain.History) {
	if h.Items == nil {
		h.Items = []domain.HistoryEntry{}
	}
	h.Normalize()
}

var (
	_ ports.HistoryRepository = (*FileStore)(nil)
	_ ports.StoreInspector    = (*FileStore)(nil)
)
