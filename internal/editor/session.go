package editor

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Session is the list of files open at quit, restored on the next start.
type Session struct {
	Files   []string `yaml:"files"`
	Current int      `yaml:"current"`
}

func LoadSession(path string) (Session, error) {
	var session Session
	data, err := os.ReadFile(path)
	if err != nil { return session, err }
	err = yaml.Unmarshal(data, &session)
	return session, err
}

func (s Session) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil { return err }
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { return err }
	return os.WriteFile(path, data, 0644)
}
