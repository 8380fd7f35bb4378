package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/paths"
)

type record struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func defaultRecord() record {
	return record{Name: "default", Count: 1, Tags: []string{}}
}

func newTestStore(t *testing.T) (*Store[record], string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "state")
	path := filepath.Join(dir, "record.json")
	locate := func() (paths.Location, error) {
		return paths.Location{Path: path, Dir: dir}, nil
	}
	s := New("record", locate, defaultRecord, Options{})
	return s.WithNormalizer(func(r *record) {
		if r.Tags == nil {
			r.Tags = []string{}
		}
	}), path
}

func writeRaw(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	want := record{Name: "custom", Count: 7, Tags: []string{"a", "b"}}

	require.NoError(t, s.Save(want))

	if diff := cmp.Diff(want, s.Load()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingWritesDefault(t *testing.T) {
	s, path := newTestStore(t)
	require.False(t, s.Exists())

	got := s.Load()
	assert.Equal(t, defaultRecord(), got)
	assert.FileExists(t, path)
	assert.True(t, s.Exists())

	assert.Equal(t, defaultRecord(), s.Load())
	res := s.Inspect()
	assert.Equal(t, SourceDisk, res.Source)
}

func TestLoadCorruptContentFallsBackWithoutTouchingFile(t *testing.T) {
	tests := map[string]string{
		"syntax error":  `{"name": "x",`,
		"array":         `[1, 2, 3]`,
		"wrong type":    `{"count": "seven"}`,
		"scalar":        `42`,
		"empty file":    ``,
		"trailing junk": `{"name":"x"} garbage`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			s, path := newTestStore(t)
			writeRaw(t, path, content)

			assert.Equal(t, defaultRecord(), s.Load())

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, content, string(raw), "corrupt file must be left untouched")

			res := s.Inspect()
			assert.Equal(t, SourceFallback, res.Source)
			var parseErr *domain.ParseError
			assert.ErrorAs(t, res.Reason, &parseErr)
		})
	}
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	s, path := newTestStore(t)
	// A directory in place of the file makes the read fail for every user.
	require.NoError(t, os.MkdirAll(path, 0o755))

	assert.Equal(t, defaultRecord(), s.Load())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "unreadable location must not be overwritten")

	res := s.Inspect()
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, domain.KindRead, domain.KindOf(res.Reason))
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	s, path := newTestStore(t)
	writeRaw(t, path, `{"count": 5}`)

	got := s.Load()
	assert.Equal(t, record{Name: "default", Count: 5, Tags: []string{}}, got)
}

func TestSaveWritesPrettyJSONWithSecurePermissions(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Save(record{Name: "n", Count: 2}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"n\",\n  \"count\": 2,\n  \"tags\": []\n}\n", string(raw))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.SecureFilePermissions), info.Mode().Perm())
}

func TestSaveReportsResolutionFailure(t *testing.T) {
	resolveErr := &domain.PathResolutionError{Store: "record", Mode: "user", Err: errors.New("no home")}
	s := New("record", func() (paths.Location, error) { return paths.Location{}, resolveErr }, defaultRecord, Options{})

	err := s.Save(defaultRecord())
	assert.ErrorIs(t, err, resolveErr)
	assert.False(t, s.Exists())
	assert.Equal(t, defaultRecord(), s.Load())
}

func TestEnsureInitializedCreatesFile(t *testing.T) {
	s, path := newTestStore(t)

	got := s.EnsureInitialized()

	assert.Equal(t, defaultRecord(), got)
	assert.FileExists(t, path)
}

func TestUpdateSerializesConcurrentWriters(t *testing.T) {
	s, _ := newTestStore(t)
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(func(r *record) error {
				r.Count++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1+writers, s.Load().Count)
}

func TestUpdateErrorWritesNothing(t *testing.T) {
	s, path := newTestStore(t)
	boom := errors.New("boom")

	err := s.Update(func(r *record) error {
		r.Name = "changed"
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path)

	// The lock must have been released.
	require.NoError(t, s.Update(func(r *record) error { return nil }))
	assert.FileExists(t, path)
}

func TestValidatorTurnsRejectedContentIntoFallback(t *testing.T) {
	s, path := newTestStore(t)
	s.WithValidator(func(r record) error {
		if r.Name == "" {
			return errors.New("record has no name")
		}
		return nil
	})
	writeRaw(t, path, `{"name": "", "count": 3}`)

	assert.Equal(t, defaultRecord(), s.Load())
	res := s.Inspect()
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, domain.KindParse, domain.KindOf(res.Reason))

	err := s.Save(record{Count: 4})
	assert.Error(t, err)
	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, `{"name": "", "count": 3}`, string(raw))
}
