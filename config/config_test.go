package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blocklane/pir/db"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoadAppliesDefaultsAndParsesLanes(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pirserver.yaml")
	writeFile(t, cfgPath, `
lanes:
  - name: hot
    shard_dir: /var/pir/hot
    crs_path: /var/pir/hot/crs.json
`)

	cfg, err := Load(cfgPath, "")
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.LoadMode)
	require.Equal(t, "1s", cfg.ReloadDebounce)
	require.Len(t, cfg.Lanes, 1)
	require.Equal(t, "hot", cfg.Lanes[0].Name)

	d, err := cfg.ReloadDebounceDuration()
	require.NoError(t, err)
	require.Equal(t, time.Second, d)

	mode, err := cfg.LoadModeValue()
	require.NoError(t, err)
	require.Equal(t, db.ReadIntoMemory, mode)
}

func TestLoadRejectsEmptyLaneList(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pirserver.yaml")
	writeFile(t, cfgPath, "lanes: []\n")

	_, err := Load(cfgPath, "")
	require.Error(t, err)
}

func TestLoadAppliesEnvFileOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pirserver.yaml")
	writeFile(t, cfgPath, `
load_mode: memory
reload_debounce: 1s
lanes:
  - name: hot
    shard_dir: /var/pir/hot
`)
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "PIR_LOAD_MODE=mmap\nPIR_RELOAD_DEBOUNCE=250ms\n")

	cfg, err := Load(cfgPath, envPath)
	require.NoError(t, err)
	require.Equal(t, "mmap", cfg.LoadMode)

	mode, err := cfg.LoadModeValue()
	require.NoError(t, err)
	require.Equal(t, db.Mmap, mode)

	d, err := cfg.ReloadDebounceDuration()
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, d)

	os.Unsetenv("PIR_LOAD_MODE")
	os.Unsetenv("PIR_RELOAD_DEBOUNCE")
}

func TestLoadModeValueRejectsUnknown(t *testing.T) {
	cfg := Config{LoadMode: "bogus"}
	_, err := cfg.LoadModeValue()
	require.Error(t, err)
}
