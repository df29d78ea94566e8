package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "multiInstance: true\nnotepadStyle: true\ninstanceName: other\ntabWidth: 8\n"
	assert.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	conf, err := Load(path)
	assert.NoError(t, err)
	assert.True(t, conf.IsMultiInstance())
	assert.True(t, conf.AsNotepadStyle())
	assert.Equal(t, "other", conf.InstanceName)
	assert.Equal(t, 8, conf.TabWidth)
	assert.Equal(t, DefaultRecoveryDir, conf.RecoveryDir)
	assert.Equal(t, DefaultTheme, conf.Theme)
	assert.Equal(t, filepath.Join(dir, "session.yaml"), conf.GetSessionPath())
}

func TestMissingConfigFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill", "config.yaml")
	t.Setenv("QUILL_CONF", path)

	conf := GetConfig()
	assert.False(t, conf.IsMultiInstance())
	assert.False(t, conf.AsNotepadStyle())
	assert.Equal(t, DefaultInstanceName, conf.InstanceName)
	assert.Equal(t, DefaultTabWidth, conf.TabWidth)

	written, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, DefaultInstanceName, written.InstanceName)
	assert.Equal(t, DefaultTheme, written.Theme)
}

func TestBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	broken := []byte("multiInstance: [\n")
	assert.NoError(t, os.WriteFile(path, broken, 0644))

	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("QUILL_CONF", path)
	assert.Equal(t, DefaultInstanceName, GetConfig().InstanceName)
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, broken, data)
}

func TestInstallPath(t *testing.T) {
	conf := DefaultConfig()
	assert.NotEmpty(t, conf.GetInstallPath())

	conf.InstallDir = "/opt/quill"
	assert.Equal(t, "/opt/quill", conf.GetInstallPath())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	conf := DefaultConfig()
	conf.NotepadStyle = true
	conf.Theme = "monokai"
	assert.NoError(t, conf.Save(path))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.True(t, loaded.AsNotepadStyle())
	assert.Equal(t, "monokai", loaded.Theme)
}
