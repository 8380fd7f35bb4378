package domain

import (
	"errors"
	"fmt"
)

// Touch records entry as the most recently opened document.
// Any entry with the same path is dropped first, so its old position and
// timestamp are discarded. The list is then capped at MaxHistoryItems.
func (h *History) Touch(entry HistoryEntry) {
	items := make([]HistoryEntry, 0, len(h.Items)+1)
	items = append(items, entry)
	for _, item := range h.Items {
		if item.Path == entry.Path {
			continue
		}
		items = append(items, item)
	}
	h.Items = truncate(items)
}

// Reopen is Touch for a document opened again: an entry already recorded for
// the same path lends its id to the new one. It returns the stored entry.
func (h *History) Reopen(entry HistoryEntry) HistoryEntry {
	if existing, ok := h.FindByPath(entry.Path); ok && existing.ID != "" {
		entry.ID = existing.ID
	}
	h.Touch(entry)
	return entry
}

// Normalize enforces the list invariants on a wholesale replacement: the first
// occurrence of each path wins and the tail beyond MaxHistoryItems is dropped.
func (h *History) Normalize() {
	seen := make(map[string]struct{}, len(h.Items))
	items := make([]HistoryEntry, 0, len(h.Items))
	for _, item := range h.Items {
		if _, dup := seen[item.Path]; dup {
			continue
		}
		seen[item.Path] = struct{}{}
		items = append(items, item)
	}
	h.Items = truncate(items)
}

// RemoveByID deletes the entry with the given id and reports whether one was found.
func (h *History) RemoveByID(id string) bool {
	for i, item := range h.Items {
		if item.ID == id {
			h.Items = append(h.Items[:i], h.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Validate reports the first entry lacking an id or a path.
func (h History) Validate() error {
	for i, item := range h.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks the fields every stored entry must carry.
func (e HistoryEntry) Validate() error {
	switch {
	case e.ID == "":
		return errors.New("entry has no id")
	case e.Path == "":
		return errors.New("entry has no path")
	}
	return nil
}

// FindByPath returns the entry recorded for path.
func (h *History) FindByPath(path string) (HistoryEntry, bool) {
	for _, item := range h.Items {
		if item.Path == path {
			return item, true
		}
	}
	return HistoryEntry{}, false
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.Items)
}

func truncate(items []HistoryEntry) []HistoryEntry {
	if len(items) > MaxHistoryItems {
		return items[:MaxHistoryItems]
	}
	return items
}
