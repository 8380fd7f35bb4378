package domain

import "time"

// History mirrors pdf-history.json: recently opened documents, most recent first.
type History struct {
	Items []HistoryEntry `json:"items"`
}

// HistoryEntry records a single opened document. Path is the natural key.
type HistoryEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	OpenTime   uint64  `json:"openTime"`
	TotalPages *uint32 `json:"totalPages"`
}

// OpenedAt converts OpenTime (epoch milliseconds) to a time.Time.
func (e HistoryEntry) OpenedAt() time.Time {
	return time.UnixMilli(int64(e.OpenTime))
}

// Pages returns the page count, or 0 when unknown.
func (e HistoryEntry) Pages() uint32 {
	if e.TotalPages == nil {
		return 0
	}
	return *e.TotalPages
}

// DocumentStat aggregates how often a document was opened.
type DocumentStat struct {
	Path     string
	Name     string
	Opens    int
	LastOpen time.Time
}
