// Package state exposes the persisted settings and document history to the
// host application as one set of operations.
package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/pkg/clock"
	"github.com/doeshing/readerstate/internal/pkg/filesystem"
	"github.com/doeshing/readerstate/internal/ports"
)

// ErrNoOpenLog is returned by statistics queries when no open log is wired.
var ErrNoOpenLog = errors.New("open log is not available")

// Service is the collaborator interface over the config and history stores.
type Service struct {
	Config  ports.ConfigRepository
	History ports.HistoryRepository
	OpenLog ports.OpenLog
	Pages   ports.PageCounter
	Clock   clock.Clock
	Logger  ports.Logger
}

// Startup guarantees both files exist before the first request is served.
func (s *Service) Startup() (domain.Config, domain.History) {
	cfg := s.Config.Init()
	hist := s.History.Init()
	s.Logger.Debug("state ready", map[string]interface{}{
		"config":  s.Config.Path(),
		"history": s.History.Path(),
		"models":  len(cfg.AIModels),
		"items":   len(hist.Items),
	})
	return cfg, hist
}

// GetConfig returns the stored settings, or the defaults.
func (s *Service) GetConfig() domain.Config {
	return s.Config.Get()
}

// SetConfig replaces the stored settings.
func (s *Service) SetConfig(cfg domain.Config) error {
	return s.Config.Set(cfg)
}

// ConfigExists reports whether config.json is present.
func (s *Service) ConfigExists() bool {
	return s.Config.Exists()
}

// InitConfig creates config.json with the defaults if it is absent.
func (s *Service) InitConfig() domain.Config {
	return s.Config.Init()
}

// ImportConfig replaces the stored settings with the file at path.
func (s *Service) ImportConfig(path string) (domain.Config, error) {
	return s.Config.ImportFrom(path)
}

// ExportConfig writes cfg to path.
func (s *Service) ExportConfig(path string, cfg domain.Config) error {
	return s.Config.ExportTo(path, cfg)
}

// UpdateConfig applies fn to the stored settings and saves the result.
func (s *Service) UpdateConfig(fn func(*domain.Config) error) (domain.Config, error) {
	return s.Config.Update(fn)
}

// GetHistory returns the stored document list, or an empty one.
func (s *Service) GetHistory() domain.History {
	return s.History.Get()
}

// SetHistory replaces the stored document list.
func (s *Service) SetHistory(h domain.History) error {
	return s.History.Set(h)
}

// InitHistory creates pdf-history.json if it is absent.
func (s *Service) InitHistory() domain.History {
	return s.History.Init()
}

// RecordHistoryOpen moves entry to the front of the document list.
func (s *Service) RecordHistoryOpen(entry domain.HistoryEntry) error {
	return s.History.RecordOpen(entry)
}

// RemoveHistory deletes the entry with the given id.
func (s *Service) RemoveHistory(id string) (bool, error) {
	return s.History.Remove(id)
}

// ClearHistory empties the document list and, when present, the open log.
func (s *Service) ClearHistory(includeLog bool) error {
	if err := s.History.Clear(); err != nil {
		return err
	}
	if includeLog && s.OpenLog != nil {
		if err := s.OpenLog.Clear(); err != nil {
			return fmt.Errorf("clear open log: %w", err)
		}
	}
	return nil
}

// OpenDocument builds a history entry for the document at path and records it.
// An existing entry for the same path keeps its id. When pages is nil the page
// count is read from the document; failing that it stays unknown.
func (s *Service) OpenDocument(path string, pages *uint32) (domain.HistoryEntry, error) {
	if strings.TrimSpace(path) == "" {
		return domain.HistoryEntry{}, errors.New("document path is empty")
	}
	path = filesystem.ExpandPath(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	entry := domain.HistoryEntry{
		ID:         uuid.NewString(),
		Name:       filepath.Base(path),
		Path:       path,
		OpenTime:   clock.Millis(s.currentClock()),
		TotalPages: pages,
	}
	if entry.TotalPages == nil && s.Pages != nil {
		if n, err := s.Pages.PageCount(path); err != nil {
			s.Logger.Debug("page count unavailable", map[string]interface{}{"path": path, "error": err.Error()})
		} else if n >= 0 {
			count := uint32(n)
			entry.TotalPages = &count
		}
	}

	return s.History.Reopen(entry)
}

// Stats returns the most opened documents from the open log.
func (s *Service) Stats(limit int) ([]domain.DocumentStat, int, error) {
	if s.OpenLog == nil {
		return nil, 0, ErrNoOpenLog
	}
	stats, err := s.OpenLog.Top(limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query open log: %w", err)
	}
	total, err := s.OpenLog.Count()
	if err != nil {
		return nil, 0, fmt.Errorf("count open log: %w", err)
	}
	return stats, total, nil
}

func (s *Service) currentClock() clock.Clock {
	if s.Clock == nil {
		return clock.RealClock{}
	}
	return s.Clock
}
