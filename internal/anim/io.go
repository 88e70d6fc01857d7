package anim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Read loads an animation description from a file, picking the codec by
// extension: .yaml/.yml are YAML, everything else is JSON.
func Read(path string) (*Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return DecodeYAML(data)
	}
	return Decode(data)
}

// Write persists an animation description next to Read: YAML for
// .yaml/.yml paths, JSON otherwise.
func Write(a *Animation, path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(a)
	} else {
		data, err = json.Marshal(a)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
