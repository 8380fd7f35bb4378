package domain_test

import (
	"fmt"
	"testing"

	"github.com/doeshing/readerstate/internal/domain"
)

func entry(path string, openTime uint64) domain.HistoryEntry {
	return domain.HistoryEntry{ID: "id-" + path, Name: path, Path: path, OpenTime: openTime}
}

func paths(h domain.History) []string {
	out := make([]string, 0, len(h.Items))
	for _, item := range h.Items {
		out = append(out, item.Path)
	}
	return out
}

func TestHistoryTouchReordersExistingPath(t *testing.T) {
	var h domain.History
	h.Touch(entry("/a.pdf", 100))
	h.Touch(entry("/b.pdf", 200))
	h.Touch(entry("/a.pdf", 300))

	got := paths(h)
	if len(got) != 2 || got[0] != "/a.pdf" || got[1] != "/b.pdf" {
		t.Fatalf("unexpected order %v", got)
	}
	if h.Items[0].OpenTime != 300 {
		t.Fatalf("expected openTime 300, got %d", h.Items[0].OpenTime)
	}
}

func TestHistoryTouchEvictsOldestBeyondCap(t *testing.T) {
	var h domain.History
	for i := 0; i < domain.MaxHistoryItems+1; i++ {
		h.Touch(entry(fmt.Sprintf("/doc-%02d.pdf", i), uint64(i)))
	}

	if h.Len() != domain.MaxHistoryItems {
		t.Fatalf("expected %d items, got %d", domain.MaxHistoryItems, h.Len())
	}
	if _, ok := h.FindByPath("/doc-00.pdf"); ok {
		t.Fatal("least recently opened entry should have been evicted")
	}
	if h.Items[0].Path != "/doc-50.pdf" {
		t.Fatalf("expected newest entry first, got %s", h.Items[0].Path)
	}
}

func TestHistoryTouchNeverDuplicatesPaths(t *testing.T) {
	var h domain.History
	sequence := []string{"/a", "/b", "/a", "/c", "/b", "/b", "/a"}
	for i, p := range sequence {
		h.Touch(entry(p, uint64(i)))

		seen := map[string]bool{}
		for _, item := range h.Items {
			if seen[item.Path] {
				t.Fatalf("duplicate path %s after step %d: %v", item.Path, i, paths(h))
			}
			seen[item.Path] = true
		}
		if h.Items[0].Path != p {
			t.Fatalf("step %d: expected %s at index 0, got %s", i, p, h.Items[0].Path)
		}
	}
}

func TestHistoryNormalize(t *testing.T) {
	h := domain.History{Items: []domain.HistoryEntry{
		entry("/a", 3), entry("/b", 2), entry("/a", 1),
	}}
	h.Normalize()

	got := paths(h)
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Fatalf("unexpected items %v", got)
	}
	if h.Items[0].OpenTime != 3 {
		t.Fatalf("first occurrence should win, got openTime %d", h.Items[0].OpenTime)
	}

	var big domain.History
	for i := 0; i < 80; i++ {
		big.Items = append(big.Items, entry(fmt.Sprintf("/%d", i), uint64(i)))
	}
	big.Normalize()
	if big.Len() != domain.MaxHistoryItems {
		t.Fatalf("expected cap %d, got %d", domain.MaxHistoryItems, big.Len())
	}
}

func TestHistoryRemoveByID(t *testing.T) {
	h := domain.History{Items: []domain.HistoryEntry{entry("/a", 1), entry("/b", 2)}}

	if !h.RemoveByID("id-/a") {
		t.Fatal("expected entry to be removed")
	}
	if h.RemoveByID("id-/a") {
		t.Fatal("second removal should report false")
	}
	if h.Len() != 1 || h.Items[0].Path != "/b" {
		t.Fatalf("unexpected items %v", paths(h))
	}
}

func TestHistoryEntryPages(t *testing.T) {
	e := entry("/a", 1)
	if e.Pages() != 0 {
		t.Fatalf("expected 0 pages for unknown count, got %d", e.Pages())
	}
	pages := uint32(12)
	e.TotalPages = &pages
	if e.Pages() != 12 {
		t.Fatalf("expected 12 pages, got %d", e.Pages())
	}
}

func TestReopenKeepsRecordedID(t *testing.T) {
	h := domain.History{Items: []domain.HistoryEntry{entry("/a", 1), entry("/b", 2)}}

	again := domain.HistoryEntry{ID: "fresh", Name: "/b", Path: "/b", OpenTime: 9}
	stored := h.Reopen(again)

	if stored.ID != "id-/b" {
		t.Errorf("Reopen() id = %q, want id-/b", stored.ID)
	}
	if h.Items[0].ID != "id-/b" || h.Items[0].OpenTime != 9 {
		t.Errorf("front entry = %+v", h.Items[0])
	}
	if got := paths(h); len(got) != 2 || got[1] != "/a" {
		t.Errorf("paths = %v", got)
	}

	added := h.Reopen(domain.HistoryEntry{ID: "new", Path: "/c"})
	if added.ID != "new" {
		t.Errorf("new path must keep its own id, got %q", added.ID)
	}
}

func TestHistoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		items   []domain.HistoryEntry
		wantErr bool
	}{
		{name: "empty", items: nil},
		{name: "complete", items: []domain.HistoryEntry{entry("/a", 1)}},
		{name: "zero entry", items: []domain.HistoryEntry{{}}, wantErr: true},
		{name: "no path", items: []domain.HistoryEntry{entry("/a", 1), {ID: "x"}}, wantErr: true},
		{name: "no id", items: []domain.HistoryEntry{{Path: "/a"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.History{Items: tt.items}.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
