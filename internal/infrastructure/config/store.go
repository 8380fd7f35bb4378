// Package config persists the settings record in config.json.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/paths"
	"github.com/doeshing/readerstate/internal/infrastructure/store"
	"github.com/doeshing/readerstate/internal/pkg/logger"
	"github.com/doeshing/readerstate/internal/ports"
)

// BackupSuffix is appended to config.json by Backup.
const BackupSuffix = ".bak"

// FileStore implements ports.ConfigRepository on top of a durable JSON store.
type FileStore struct {
	store *store.Store[domain.Config]
	log   ports.Logger
}

// NewFileStore builds a config store whose file is located by resolver.
func NewFileStore(resolver *paths.Resolver, log ports.Logger) *FileStore {
	if log == nil {
		log = logger.Nop()
	}
	s := store.New(domain.ConfigStoreName, resolver.Locator(domain.ConfigStoreName), DefaultConfig, store.Options{Logger: log})
	return &FileStore{store: s.WithNormalizer(normalize), log: log}
}

// Get returns the stored settings, or the defaults when they cannot be read.
func (s *FileStore) Get() domain.Config {
	return s.store.Load()
}

// Set replaces the stored settings.
func (s *FileStore) Set(cfg domain.Config) error {
	if err := s.store.Save(cfg); err != nil {
		return saveError("save", s.Path(), err)
	}
	return nil
}

// Update applies fn to the current settings and saves them under the store
// lock. Errors returned by fn come back unchanged and nothing is written.
func (s *FileStore) Update(fn func(*domain.Config) error) (domain.Config, error) {
	var (
		updated domain.Config
		fnErr   error
	)
	err := s.store.Update(func(cfg *domain.Config) error {
		if fnErr = fn(cfg); fnErr != nil {
			return fnErr
		}
		updated = *cfg
		return nil
	})
	switch {
	case fnErr != nil:
		return domain.Config{}, fnErr
	case err != nil:
		return domain.Config{}, saveError("update", s.Path(), err)
	}
	return updated, nil
}

// Peek returns the settings Get would return, without writing a missing file.
func (s *FileStore) Peek() domain.Config {
	return s.store.Inspect().Value
}

// Exists reports whether config.json is present.
func (s *FileStore) Exists() bool {
	return s.store.Exists()
}

// Init makes sure config.json exists and returns its content.
func (s *FileStore) Init() domain.Config {
	return s.store.EnsureInitialized()
}

// Inspect reads the settings without side effects.
func (s *FileStore) Inspect() store.LoadResult[domain.Config] {
	return s.store.Inspect()
}

// Status reports the on-disk state of the file.
func (s *FileStore) Status() domain.StoreStatus {
	return s.store.Status()
}

// Path returns the resolved file path, or "" when it cannot be determined.
func (s *FileStore) Path() string {
	loc, err := s.store.Location()
	if err != nil {
		return ""
	}
	return loc.Path
}

// Backup copies the current file to config.json.bak and returns the backup path.
// It returns "" without error when there is nothing to back up.
func (s *FileStore) Backup() (string, error) {
	loc, err := s.store.Location()
	if err != nil {
		return "", &domain.ConfigError{Op: "backup", Kind: domain.KindResolve, Err: err}
	}
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", &domain.ConfigError{Op: "backup", Kind: domain.KindRead, Path: loc.Path, Err: err}
	}
	backup := loc.Path + BackupSuffix
	if err := store.AtomicWriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", &domain.ConfigError{Op: "backup", Kind: domain.KindWrite, Path: backup, Err: err}
	}
	s.log.Debug("config backed up", map[string]interface{}{"path": backup})
	return backup, nil
}

// Reset overwrites the stored settings with the defaults.
func (s *FileStore) Reset() (domain.Config, error) {
	cfg := DefaultConfig()
	if err := s.store.Save(cfg); err != nil {
		return DefaultConfig(), saveError("reset", s.Path(), err)
	}
	return cfg, nil
}

func saveError(op, path string, err error) error {
	kind := domain.KindSave
	if domain.KindOf(err) == domain.KindResolve {
		kind = domain.KindResolve
	}
	return &domain.ConfigError{Op: op, Kind: kind, Path: path, Err: err}
}

var (
	_ ports.ConfigRepository = (*FileStore)(nil)
	_ ports.StoreInspector   = (*FileStore)(nil)
)
