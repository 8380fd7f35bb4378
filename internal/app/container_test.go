package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/readerstate/internal/domain"
)

func TestBuildContainerWiresStoresIntoOneDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	c, err := BuildContainer(Options{DataDir: dir, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	cfg, hist := c.StateService.Startup()

	assert.Equal(t, "zh", cfg.TranslateTargetLang)
	assert.Empty(t, hist.Items)
	assert.FileExists(t, filepath.Join(dir, "config.json"))
	assert.FileExists(t, filepath.Join(dir, "pdf-history.json"))
	assert.FileExists(t, filepath.Join(dir, "pdf-history.db"))
	require.NotNil(t, c.OpenLog)
	assert.NoError(t, c.OpenLogErr)
}

func TestRecordedOpensReachTheOpenLog(t *testing.T) {
	c, err := BuildContainer(Options{DataDir: t.TempDir(), LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	pages := uint32(10)
	_, err = c.StateService.OpenDocument("/papers/a.pdf", &pages)
	require.NoError(t, err)

	stats, total, err := c.StateService.Stats(0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, stats, 1)
	assert.Equal(t, "a.pdf", stats[0].Name)
}

func TestContainerRunsWithoutOpenLog(t *testing.T) {
	dir := t.TempDir()
	// A directory where the database file should be makes sqlite fail to open it.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pdf-history.db"), 0o755))
	var logs bytes.Buffer

	c, err := BuildContainer(Options{DataDir: dir, LogOutput: &logs})
	require.NoError(t, err)

	assert.Nil(t, c.OpenLog)
	assert.Error(t, c.OpenLogErr)
	assert.Contains(t, logs.String(), "open log unavailable")

	require.NoError(t, c.StateService.RecordHistoryOpen(domain.HistoryEntry{ID: "1", Name: "a.pdf", Path: "/a.pdf", OpenTime: 1}))
	assert.Len(t, c.StateService.GetHistory().Items, 1)
	assert.NoError(t, c.Close())
}

func TestDisableOpenLog(t *testing.T) {
	dir := t.TempDir()
	c, err := BuildContainer(Options{DataDir: dir, DisableOpenLog: true, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	assert.Nil(t, c.OpenLog)
	assert.NoFileExists(t, filepath.Join(dir, "pdf-history.db"))
	report := c.DoctorService.Run()
	assert.True(t, report.Healthy())
}

func TestBuildContainerRejectsUnknownMode(t *testing.T) {
	_, err := BuildContainer(Options{Mode: "cloud", DataDir: t.TempDir()})
	assert.Error(t, err)
}

func TestDoctorLeavesFreshDirectoryUntouched(t *testing.T) {
	dir := t.TempDir()
	c, err := BuildContainer(Options{DataDir: dir, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	report := c.DoctorService.Run()

	assert.True(t, report.Healthy())
	for _, check := range report.Checks {
		if check.Name == "config.json" || check.Name == "pdf-history.json" {
			assert.Equal(t, domain.HealthWarn, check.Status, check.Details)
		}
	}
	assert.NoFileExists(t, filepath.Join(dir, "config.json"))
	assert.NoFileExists(t, filepath.Join(dir, "pdf-history.json"))
}
