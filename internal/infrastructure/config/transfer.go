package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/store"
	"github.com/doeshing/readerstate/internal/pkg/filesystem"
)

// ImportFrom reads a settings file from path and makes it the stored settings.
// The stored settings are left untouched when any step fails.
func (s *FileStore) ImportFrom(path string) (domain.Config, error) {
	path = filesystem.ExpandPath(path)

	if _, err := os.Stat(path); err != nil {
		kind := domain.KindOpen
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return domain.Config{}, &domain.ConfigError{Op: "import", Kind: kind, Path: path, Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.Config{}, &domain.ConfigError{Op: "import", Kind: domain.KindOpen, Path: path, Err: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.Config{}, &domain.ConfigError{Op: "import", Kind: domain.KindRead, Path: path, Err: err}
	}

	cfg, err := decodeStrict(data)
	if err != nil {
		return domain.Config{}, &domain.ConfigError{Op: "import", Kind: domain.KindParse, Path: path, Err: err}
	}

	if err := s.store.Save(cfg); err != nil {
		return domain.Config{}, saveError("import", s.Path(), err)
	}
	s.log.Info("config imported", map[string]interface{}{"from": path, "models": len(cfg.AIModels)})
	return cfg, nil
}

// ExportTo writes cfg to path, creating parent directories as needed.
// The stored settings file is never touched.
func (s *FileStore) ExportTo(path string, cfg domain.Config) error {
	path = filesystem.ExpandPath(path)

	data, err := s.store.Encode(cfg)
	if err != nil {
		return &domain.ConfigError{Op: "export", Kind: domain.KindWrite, Path: path, Err: err}
	}
	if err := store.AtomicWriteFile(path, data, domain.SecureFilePermissions); err != nil {
		return &domain.ConfigError{Op: "export", Kind: domain.KindWrite, Path: path, Err: err}
	}
	s.log.Info("config exported", map[string]interface{}{"to": path})
	return nil
}

// decodeStrict parses an imported settings object. Unlike the lenient read of
// config.json, unknown keys and trailing content are rejected.
func decodeStrict(data []byte) (domain.Config, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.Config{}, errors.New("content is not a JSON object")
	}

	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return domain.Config{}, err
	}
	if dec.More() {
		return domain.Config{}, errors.New("unexpected content after JSON object")
	}
	normalize(&cfg)
	return cfg, nil
}
