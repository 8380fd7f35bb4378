package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/readerstate/internal/domain"
)

func TestImportMissingFileLeavesStoreUntouched(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set(sampleConfig()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = s.ImportFrom(filepath.Join(t.TempDir(), "nope.json"))

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, domain.KindNotFound, cfgErr.Kind)
	assert.Contains(t, err.Error(), "path does not exist")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExportThenImportRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	want := sampleConfig()
	target := filepath.Join(t.TempDir(), "new", "dir", "settings.json")

	require.NoError(t, s.ExportTo(target, want))
	assert.False(t, s.Exists(), "export must not touch the stored settings")

	got, err := s.ImportFrom(target)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("imported config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.Get()); diff != "" {
		t.Fatalf("stored config mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRejectsInvalidContent(t *testing.T) {
	tests := map[string]string{
		"syntax error":  `{"translateTargetLang": `,
		"not an object": `[{"id": "m1"}]`,
		"wrong type":    `{"selectionOpacity": "high"}`,
		"unknown key":   `{"theme": "dark"}`,
		"trailing junk": `{"translateTargetLang": "en"} {}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStore(t)
			source := filepath.Join(t.TempDir(), "in.json")
			require.NoError(t, os.WriteFile(source, []byte(content), 0o600))

			_, err := s.ImportFrom(source)

			assert.Equal(t, domain.KindParse, domain.KindOf(err))
			assert.False(t, s.Exists(), "failed import must not write the stored settings")
		})
	}
}

func TestImportPartialObjectKeepsDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	source := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(source, []byte(`{"translateTargetLang": "ja"}`), 0o600))

	cfg, err := s.ImportFrom(source)
	require.NoError(t, err)

	want := DefaultConfig()
	want.TranslateTargetLang = "ja"
	assert.Equal(t, want, cfg)
}

func TestImportDirectoryIsReadError(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.ImportFrom(t.TempDir())

	assert.Equal(t, domain.KindRead, domain.KindOf(err))
}

func TestExportFailureIsWriteError(t *testing.T) {
	s, _ := newTestStore(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := s.ExportTo(filepath.Join(blocker, "out.json"), sampleConfig())

	assert.Equal(t, domain.KindWrite, domain.KindOf(err))
}
