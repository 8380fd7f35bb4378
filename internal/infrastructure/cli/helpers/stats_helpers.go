package helpers

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/readerstate/internal/domain"
)

// ShortIDLength is how many characters of an entry id are shown in listings.
const ShortIDLength = 8

// FormatOpenTime renders an open time relative to now ("3 minutes ago").
func FormatOpenTime(openedAt, now time.Time) string {
	return humanize.RelTime(openedAt, now, "ago", "from now")
}

// FormatPages renders a page count, or "?" when unknown.
func FormatPages(pages *uint32) string {
	if pages == nil {
		return "?"
	}
	return fmt.Sprintf("%s pages", humanize.Comma(int64(*pages)))
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// ShortID truncates an entry id for display.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// LimitEntries returns at most limit entries; limit <= 0 returns all of them.
func LimitEntries(items []domain.HistoryEntry, limit int) []domain.HistoryEntry {
	if shouldLimitResults(limit, len(items)) {
		return items[:limit]
	}
	return items
}

// shouldLimitResults checks if we should limit the results based on the limit and actual length
func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}
