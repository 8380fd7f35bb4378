package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/readerstate/internal/domain"
)

func fakeHost(t *testing.T, exe, configDir string, env map[string]string) Host {
	t.Helper()
	return Host{
		Executable:    func() (string, error) { return exe, nil },
		UserConfigDir: func() (string, error) { return configDir, nil },
		Getenv:        func(key string) string { return env[key] },
		MkdirAll:      os.MkdirAll,
	}
}

func TestResolveUserModeCreatesAppDir(t *testing.T) {
	base := t.TempDir()
	r := NewResolver(WithHost(fakeHost(t, "/opt/app/readerstate", base, nil)), WithMode(ModeUser))

	loc, err := r.Resolve(domain.ConfigStoreName)
	require.NoError(t, err)

	wantDir := filepath.Join(base, AppDirName)
	assert.Equal(t, wantDir, loc.Dir)
	assert.Equal(t, filepath.Join(wantDir, "config.json"), loc.Path)
	assert.DirExists(t, wantDir)
}

func TestResolvePortableModeUsesExecutableDir(t *testing.T) {
	r := NewResolver(WithHost(fakeHost(t, "/opt/app/readerstate", "", nil)), WithMode(ModePortable))

	loc, err := r.Resolve(domain.HistoryStoreName)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/app", "pdf-history.json"), loc.Path)
}

func TestResolveDevModeWalksUpToProjectRoot(t *testing.T) {
	r := NewResolver(WithHost(fakeHost(t, "/src/project/bin/readerstate", "", nil)), WithMode(ModeDevelopment))

	loc, err := r.Resolve(domain.ConfigStoreName)
	require.NoError(t, err)
	assert.Equal(t, "/src/project", loc.Dir)
}

func TestStoresShareOneDirectory(t *testing.T) {
	base := t.TempDir()
	r := NewResolver(WithHost(fakeHost(t, "/opt/app/readerstate", base, nil)))

	cfg, err := r.Resolve(domain.ConfigStoreName)
	require.NoError(t, err)
	hist, err := r.Resolve(domain.HistoryStoreName)
	require.NoError(t, err)

	assert.Equal(t, cfg.Dir, hist.Dir)
	assert.NotEqual(t, cfg.Path, hist.Path)
}

func TestEnvironmentOverrides(t *testing.T) {
	home := filepath.Join(t.TempDir(), "state")
	env := map[string]string{EnvHome: home, EnvMode: "portable"}
	r := NewResolver(WithHost(fakeHost(t, "/opt/app/readerstate", "", env)))

	assert.Equal(t, ModePortable, r.Mode())
	loc, err := r.Resolve(domain.ConfigStoreName)
	require.NoError(t, err)
	assert.Equal(t, home, loc.Dir)
	assert.DirExists(t, home)
}

func TestExplicitOptionsBeatEnvironment(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{EnvHome: "/nowhere", EnvMode: "portable"}
	r := NewResolver(WithHost(fakeHost(t, "/opt/app/readerstate", "", env)), WithMode(ModeUser), WithDir(dir))

	assert.Equal(t, ModeUser, r.Mode())
	loc, err := r.Resolve(domain.ConfigStoreName)
	require.NoError(t, err)
	assert.Equal(t, dir, loc.Dir)
}

func TestResolveFailures(t *testing.T) {
	t.Run("executable unavailable", func(t *testing.T) {
		host := fakeHost(t, "", "", nil)
		host.Executable = func() (string, error) { return "", errors.New("no procfs") }
		r := NewResolver(WithHost(host), WithMode(ModePortable))

		_, err := r.Resolve(domain.ConfigStoreName)
		var resolveErr *domain.PathResolutionError
		require.ErrorAs(t, err, &resolveErr)
		assert.Equal(t, domain.ConfigStoreName, resolveErr.Store)
		assert.Equal(t, "portable", resolveErr.Mode)
	})

	t.Run("user config dir unavailable", func(t *testing.T) {
		host := fakeHost(t, "/opt/app/readerstate", "", nil)
		host.UserConfigDir = func() (string, error) { return "", errors.New("$HOME is not defined") }
		r := NewResolver(WithHost(host), WithMode(ModeUser))

		_, err := r.Resolve(domain.HistoryStoreName)
		assert.Equal(t, domain.KindResolve, domain.KindOf(err))
	})

	t.Run("directory creation fails", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		r := NewResolver(WithHost(fakeHost(t, "/opt/app/readerstate", blocker, nil)), WithMode(ModeUser))

		_, err := r.Resolve(domain.ConfigStoreName)
		assert.Equal(t, domain.KindResolve, domain.KindOf(err))
	})

	t.Run("dev anchor above root", func(t *testing.T) {
		r := NewResolver(WithHost(fakeHost(t, "/readerstate", "", nil)), WithMode(ModeDevelopment))

		_, err := r.Resolve(domain.ConfigStoreName)
		assert.Error(t, err)
	})
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"dev":      ModeDevelopment,
		"debug":    ModeDevelopment,
		"Portable": ModePortable,
		"release":  ModePortable,
		" user ":   ModeUser,
	}
	for raw, want := range tests {
		got, err := ParseMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseMode("cloud")
	assert.Error(t, err)
}
