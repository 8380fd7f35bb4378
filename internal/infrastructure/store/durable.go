// Package store implements the generic file-backed record store shared by the
// config and history adapters.
//
// A Store[T] owns one JSON file. Reads never fail: a missing file yields the
// default record (and is written out), unreadable or corrupt content yields the
// default record and is left on disk untouched. Writes are atomic.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/paths"
	"github.com/doeshing/readerstate/internal/pkg/logger"
	"github.com/doeshing/readerstate/internal/ports"
)

// Source tells where a loaded value came from.
type Source int

const (
	// SourceDisk means the file existed and decoded cleanly.
	SourceDisk Source = iota
	// SourceMissing means no file existed; the value is the default record.
	SourceMissing
	// SourceFallback means the file could not be located, read or parsed;
	// the value is the default record and Reason holds the cause.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceDisk:
		return "disk"
	case SourceMissing:
		return "missing"
	case SourceFallback:
		return "fallback"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// LoadResult is the tagged outcome of a read.
type LoadResult[T any] struct {
	Value    T
	Source   Source
	Reason   error
	Location paths.Location
}

// Locator resolves the file a store reads and writes.
type Locator func() (paths.Location, error)

// Options tune a Store.
type Options struct {
	Logger ports.Logger
	// Perm is the mode of written files; defaults to domain.SecureFilePermissions.
	Perm os.FileMode
}

// Store is a durable, JSON-serialized record of type T.
type Store[T any] struct {
	name      string
	locate    Locator
	defaults  func() T
	normalize func(*T)
	validate  func(T) error
	log       ports.Logger
	perm      os.FileMode
	mu        sync.Mutex
}

// New creates a store named name. defaults must return a fresh value on every call.
func New[T any](name string, locate Locator, defaults func() T, opts Options) *Store[T] {
	s := &Store[T]{
		name:     name,
		locate:   locate,
		defaults: defaults,
		log:      opts.Logger,
		perm:     opts.Perm,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.perm == 0 {
		s.perm = domain.SecureFilePermissions
	}
	return s
}

// WithNormalizer installs fn, applied to every decoded value and to every value
// before it is written.
func (s *Store[T]) WithNormalizer(fn func(*T)) *Store[T] {
	s.normalize = fn
	return s
}

// WithValidator installs fn, which rejects decoded values that match T's shape
// but not its meaning. A rejected file loads as a fallback, and a rejected value
// is never written.
func (s *Store[T]) WithValidator(fn func(T) error) *Store[T] {
	s.validate = fn
	return s
}

// Name returns the store name.
func (s *Store[T]) Name() string {
	return s.name
}

// Location resolves the backing file.
func (s *Store[T]) Location() (paths.Location, error) {
	return s.locate()
}

// Exists reports whether the backing file is present. It has no side effects.
func (s *Store[T]) Exists() bool {
	loc, err := s.locate()
	if err != nil {
		return false
	}
	_, err = os.Stat(loc.Path)
	return err == nil
}

// Inspect reads the store without side effects and reports where the value came from.
func (s *Store[T]) Inspect() LoadResult[T] {
	loc, err := s.locate()
	if err != nil {
		return LoadResult[T]{Value: s.fresh(), Source: SourceFallback, Reason: err}
	}

	data, err := os.ReadFile(loc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult[T]{Value: s.fresh(), Source: SourceMissing, Location: loc}
		}
		return LoadResult[T]{
			Value:    s.fresh(),
			Source:   SourceFallback,
			Reason:   &domain.IoError{Op: "read", Path: loc.Path, Err: err},
			Location: loc,
		}
	}

	value, err := s.Decode(data)
	if err != nil {
		return LoadResult[T]{
			Value:    s.fresh(),
			Source:   SourceFallback,
			Reason:   &domain.ParseError{Path: loc.Path, Err: err},
			Location: loc,
		}
	}
	return LoadResult[T]{Value: value, Source: SourceDisk, Location: loc}
}

// Load returns the stored value, never failing. A missing file is initialized
// with the default value on a best-effort basis.
func (s *Store[T]) Load() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked().Value
}

// EnsureInitialized is the startup counterpart of Load: it guarantees a file is
// present for external tools whenever the location is writable, and logs how
// the value was obtained.
func (s *Store[T]) EnsureInitialized() T {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.loadLocked()
	fields := map[string]interface{}{"store": s.name, "path": res.Location.Path, "source": res.Source.String()}
	s.log.Info("store initialized", fields)
	return res.Value
}

// Save replaces the stored value.
func (s *Store[T]) Save(value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(value)
}

// Update runs load-modify-save while holding the store lock. The lock is
// released on every path; nothing is written when fn fails.
func (s *Store[T]) Update(fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.Inspect()
	if res.Source == SourceFallback {
		s.logFallback(res)
	}
	value := res.Value
	if err := fn(&value); err != nil {
		return err
	}
	return s.saveLocked(value)
}

// Decode parses data as a JSON object onto the default value, so absent keys
// keep their defaults. Anything that is not an object, or does not match T's
// shape, is an error.
func (s *Store[T]) Decode(data []byte) (T, error) {
	value := s.defaults()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return s.fresh(), errors.New("content is not a JSON object")
	}
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return s.fresh(), err
	}
	if s.validate != nil {
		if err := s.validate(value); err != nil {
			return s.fresh(), err
		}
	}
	if s.normalize != nil {
		s.normalize(&value)
	}
	return value, nil
}

// Encode renders value the way it is written to disk.
func (s *Store[T]) Encode(value T) ([]byte, error) {
	if s.normalize != nil {
		s.normalize(&value)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *Store[T]) loadLocked() LoadResult[T] {
	res := s.Inspect()
	switch res.Source {
	case SourceMissing:
		if err := s.saveLocked(res.Value); err != nil {
			s.log.Warn("could not write default record", map[string]interface{}{
				"store": s.name, "path": res.Location.Path, "error": err.Error(),
			})
		} else {
			s.log.Debug("wrote default record", map[string]interface{}{"store": s.name, "path": res.Location.Path})
		}
	case SourceFallback:
		s.logFallback(res)
	}
	return res
}

func (s *Store[T]) saveLocked(value T) error {
	if s.validate != nil {
		if err := s.validate(value); err != nil {
			return fmt.Errorf("invalid %s record: %w", s.name, err)
		}
	}
	loc, err := s.locate()
	if err != nil {
		return err
	}
	data, err := s.Encode(value)
	if err != nil {
		return &domain.IoError{Op: "marshal", Path: loc.Path, Err: err}
	}
	return AtomicWriteFile(loc.Path, data, s.perm)
}

func (s *Store[T]) logFallback(res LoadResult[T]) {
	s.log.Warn("using default record", map[string]interface{}{
		"store": s.name, "path": res.Location.Path, "reason": fmt.Sprint(res.Reason),
	})
}

func (s *Store[T]) fresh() T {
	value := s.defaults()
	if s.normalize != nil {
		s.normalize(&value)
	}
	return value
}

// Status summarizes Inspect for diagnostics.
func (s *Store[T]) Status() domain.StoreStatus {
	res := s.Inspect()
	return domain.StoreStatus{Name: s.name, Path: res.Location.Path, Source: res.Source.String(), Reason: res.Reason}
}
