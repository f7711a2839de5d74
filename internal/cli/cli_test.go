package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinitescroll/internal/config"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	file := config.DefaultConfig()
	file.Watcher.Threshold = 4
	file.Feed.PageSize = 8
	require.NoError(t, config.NewConfigService().SaveToPath(file, path))

	f := &flags{}
	cmd := newRootCommand(f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--threshold", "9", "-b", "top"}))

	cfg, err := loadConfig(f, cmd)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Watcher.Threshold)
	assert.Equal(t, []string{"top"}, cfg.Watcher.Boundaries)
	assert.Equal(t, 8, cfg.Feed.PageSize, "unset flags keep file values")
}

func TestLoadConfigRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want error
	}{
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "none.toml")}, os.ErrNotExist},
		{"zero page size", []string{"--page-size", "0"}, config.ErrInvalid},
		{"unknown boundary", []string{"--boundaries", "left"}, config.ErrInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := &flags{}
			cmd := newRootCommand(f)
			require.NoError(t, cmd.ParseFlags(c.args))
			_, err := loadConfig(f, cmd)
			require.ErrorIs(t, err, c.want)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	f := &flags{}
	cmd := newRootCommand(f)
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, err := loadConfig(f, cmd)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}
