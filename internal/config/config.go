package config

import (
	. "quill/internal/logger"

	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"path/filepath"
)

type Config struct {
	MultiInstance bool   `yaml:"multiInstance"`
	NotepadStyle  bool   `yaml:"notepadStyle"`
	InstallDir    string `yaml:"installDir,omitempty"`
	InstanceName  string `yaml:"instanceName,omitempty"`
	RecoveryDir   string `yaml:"recoveryDir,omitempty"`
	Theme         string `yaml:"theme,omitempty"`
	TabWidth      int    `yaml:"tabWidth,omitempty"`
	Session       string `yaml:"session,omitempty"`

	path string // file the config was read from
}

const (
	DefaultInstanceName = "quillInstance"
	DefaultRecoveryDir  = "quill-recovery"
	DefaultTheme        = "quill"
	DefaultTabWidth     = 4
)

func DefaultConfig() *Config {
	return &Config{
		InstanceName: DefaultInstanceName,
		RecoveryDir:  DefaultRecoveryDir,
		Theme:        DefaultTheme,
		TabWidth:     DefaultTabWidth,
	}
}

// ConfigPath returns QUILL_CONF if set, otherwise <user config dir>/quill/config.yaml.
func ConfigPath() string {
	conffilename, exists := os.LookupEnv("QUILL_CONF")
	if exists && conffilename != "" { return conffilename }

	dir, err := os.UserConfigDir()
	if err != nil { return "config.yaml" }
	return filepath.Join(dir, "quill", "config.yaml")
}

// GetConfig never fails: a missing or broken file leaves the defaults in place.
// A missing file is created with the defaults so there is something to edit.
func GetConfig() *Config {
	path := ConfigPath()
	conf, err := Load(path)
	if err == nil { return conf }

	Log.Info("using default config:", err.Error())
	conf = DefaultConfig()
	conf.path = path
	if errors.Is(err, fs.ErrNotExist) {
		if err := conf.Save(path); err != nil { Log.Error("write default config:", err.Error()) }
	}
	return conf
}

func Load(path string) (*Config, error) {
	conf := DefaultConfig()
	conf.path = path

	data, err := os.ReadFile(path)
	if err != nil { return nil, fmt.Errorf("read config %s: %w", path, err) }

	var yamlConfig Config
	err = yaml.Unmarshal(data, &yamlConfig)
	if err != nil { return nil, fmt.Errorf("parse config %s: %w", path, err) }

	// override defaults with whatever the file sets
	conf.MultiInstance = yamlConfig.MultiInstance
	conf.NotepadStyle = yamlConfig.NotepadStyle
	if yamlConfig.InstallDir != "" { conf.InstallDir = yamlConfig.InstallDir }
	if yamlConfig.InstanceName != "" { conf.InstanceName = yamlConfig.InstanceName }
	if yamlConfig.RecoveryDir != "" { conf.RecoveryDir = yamlConfig.RecoveryDir }
	if yamlConfig.Theme != "" { conf.Theme = yamlConfig.Theme }
	if yamlConfig.TabWidth > 0 { conf.TabWidth = yamlConfig.TabWidth }
	if yamlConfig.Session != "" { conf.Session = yamlConfig.Session }

	return conf, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil { return err }
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { return err }
	return os.WriteFile(path, data, 0644)
}

func (c *Config) IsMultiInstance() bool { return c.MultiInstance }

// AsNotepadStyle reports the notepad replacement mode: one window per file, no tabs, no session.
func (c *Config) AsNotepadStyle() bool { return c.NotepadStyle }

func (c *Config) GetInstallPath() string {
	if c.InstallDir != "" { return c.InstallDir }
	exe, err := os.Executable()
	if err != nil { return "" }
	return filepath.Dir(exe)
}

func (c *Config) GetSessionPath() string {
	if c.Session != "" { return c.Session }
	dir := filepath.Dir(c.path)
	if c.path == "" { dir = "." }
	return filepath.Join(dir, "session.yaml")
}
