// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (the state service, the doctor) depends only on these
// abstractions. Concrete adapters live under internal/infrastructure: JSON file
// stores for config and history, the SQLite open log, the PDF page reader.
package ports

import (
	"github.com/doeshing/readerstate/internal/domain"
)

// ConfigRepository persists the settings record.
// Get never fails: missing or corrupt content collapses to the default record.
type ConfigRepository interface {
	Get() domain.Config
	Set(domain.Config) error
	// Update runs load-modify-save as one step under the store lock.
	Update(fn func(*domain.Config) error) (domain.Config, error)
	Exists() bool
	Init() domain.Config
	ImportFrom(path string) (domain.Config, error)
	ExportTo(path string, cfg domain.Config) error
	Path() string
}

// HistoryRepository persists the recently opened document list.
// Implementations keep paths unique, most recent first, and at most
// domain.MaxHistoryItems entries.
type HistoryRepository interface {
	Get() domain.History
	Set(domain.History) error
	Exists() bool
	Init() domain.History
	RecordOpen(domain.HistoryEntry) error
	// Reopen is RecordOpen keeping the id of an entry already stored for the
	// same path. It returns the entry as stored.
	Reopen(domain.HistoryEntry) (domain.HistoryEntry, error)
	Remove(id string) (bool, error)
	Clear() error
	Path() string
}

// OpenRecorder receives every successfully recorded document open.
type OpenRecorder interface {
	Record(domain.HistoryEntry) error
}

// OpenLog is the queryable side of an OpenRecorder.
type OpenLog interface {
	OpenRecorder
	Top(limit int) ([]domain.DocumentStat, error)
	Count() (int, error)
	Clear() error
	Close() error
}

// PageCounter reads the number of pages of a document on disk.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// StoreInspector reports the on-disk state of a store without modifying it.
type StoreInspector interface {
	Status() domain.StoreStatus
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
