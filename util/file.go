package util

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

func ReadFileYAML(path string, target interface{}) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Errorf("file %s does not exist", path)
	}

	yamlData, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "invalid file: %s", path)
	}

	if err := yaml.Unmarshal(yamlData, target); err != nil {
		return errors.Wrapf(err, "problem parsing yaml/json from file %s", path)
	}

	return nil
}

func ReadFileJSON(path string, target interface{}) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Errorf("file %s does not exist", path)
	}

	jsonData, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "invalid file: %s", path)
	}

	if err := json.Unmarshal(jsonData, target); err != nil {
		return errors.Wrapf(err, "problem parsing json from file %s", path)
	}

	return nil
}

func WriteFileJSON(path string, data interface{}) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "problem marshaling data")
	}

	if err := os.WriteFile(path, append(payload, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "problem writing file %s", path)
	}

	return nil
}

func FileExists(path string) bool {
	if path == "" {
		return false
	}

	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}
