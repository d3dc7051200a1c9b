package tutor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadHistory reads a saved conversation. JSON documents are valid YAML,
// so one decoder serves both.
func LoadHistory(path string) ([]Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var messages []Message
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	for i, m := range messages {
		if m.Role != RoleUser && m.Role != RoleModel {
			return nil, fmt.Errorf("message %d has unknown role %q", i, m.Role)
		}
	}
	return messages, nil
}

// SaveHistory writes messages as YAML for .yaml and .yml paths and as JSON
// otherwise.
func SaveHistory(path string, messages []Message) error {
	var (
		data []byte
		err  error
	)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(messages)
	default:
		data, err = json.MarshalIndent(messages, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
