package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	body := "path: " + filepath.Join(dir, "db") + "\nfamily: smiths\nundo-window: 1m30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".kidoers.yaml"), []byte(body), 0o644))
	t.Setenv("KIDOERS_CONFIG_PATH", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "db"), cfg.BasePath())
	require.Equal(t, "smiths", cfg.Family())
	require.Equal(t, 90*time.Second, cfg.UndoWindow())
}
