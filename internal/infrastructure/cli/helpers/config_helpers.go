package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/readerstate/internal/app"
	configapp "github.com/doeshing/readerstate/internal/application/config"
	"github.com/doeshing/readerstate/internal/application/state"
	"github.com/doeshing/readerstate/internal/domain"
	configinfra "github.com/doeshing/readerstate/internal/infrastructure/config"
)

// GetStateService extracts the state service from container with error handling
func GetStateService(container *app.Container) (*state.Service, error) {
	if container == nil || container.StateService == nil {
		return nil, fmt.Errorf("state service unavailable")
	}
	return container.StateService, nil
}

// GetConfigStore extracts the config store from container with error handling
func GetConfigStore(container *app.Container) (*configinfra.FileStore, error) {
	if container == nil || container.ConfigStore == nil {
		return nil, fmt.Errorf("config store unavailable")
	}
	return container.ConfigStore, nil
}

// SaveConfigWithValidation validates and saves configuration with automatic backup
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) error {
	store, err := GetConfigStore(container)
	if err != nil {
		return err
	}

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", configapp.AsConfigError("set", err))
	}

	if _, err := store.Backup(); err != nil {
		return fmt.Errorf("failed to create configuration backup: %w", err)
	}

	if err := container.StateService.SetConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string.
// Input that YAML reads as nothing (a bare "#007bff" is a comment) stays literal.
func ParseYAMLValue(input string) (interface{}, error) {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input, nil
	}
	if trimmed := strings.TrimSpace(input); parsed == nil && trimmed != "" && trimmed != "null" && trimmed != "~" {
		return input, nil
	}
	return parsed, nil
}

// SetNestedMapValue sets a value in a nested map using a key path.
// Numeric segments index into existing lists ("aiModels.0.name"); missing or
// scalar map entries along the way are replaced by maps. It returns false for
// an empty path or a list index out of range.
func SetNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}
	_, ok := setPath(root, keyPath, value)
	return ok
}

func setPath(node interface{}, keyPath []string, value interface{}) (interface{}, bool) {
	if len(keyPath) == 0 {
		return value, true
	}

	switch n := node.(type) {
	case map[string]interface{}:
		child, ok := setPath(n[keyPath[0]], keyPath[1:], value)
		if !ok {
			return nil, false
		}
		n[keyPath[0]] = child
		return n, true
	case []interface{}:
		idx, ok := listIndex(keyPath[0], len(n))
		if !ok {
			return nil, false
		}
		child, ok := setPath(n[idx], keyPath[1:], value)
		if !ok {
			return nil, false
		}
		n[idx] = child
		return n, true
	default:
		return setPath(map[string]interface{}{}, keyPath, value)
	}
}

// TraverseNestedMap retrieves a value from a nested map using a key path.
// Numeric segments index into lists ("aiModels.0.name").
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}

	switch node := data.(type) {
	case map[string]interface{}:
		next, exists := node[keyPath[0]]
		if !exists {
			return nil, false
		}
		return TraverseNestedMap(next, keyPath[1:])
	case []interface{}:
		idx, ok := listIndex(keyPath[0], len(node))
		if !ok {
			return nil, false
		}
		return TraverseNestedMap(node[idx], keyPath[1:])
	default:
		return nil, false
	}
}

func listIndex(segment string, length int) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

// ConfigToMap converts domain.Config to a generic map keyed like config.json
func ConfigToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var cfgMap map[string]interface{}
	if err := json.Unmarshal(raw, &cfgMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return cfgMap, nil
}

// MapToConfig converts a generic map back to domain.Config, rejecting unknown keys
func MapToConfig(cfgMap map[string]interface{}) (domain.Config, error) {
	raw, err := json.Marshal(cfgMap)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}

	var updated domain.Config
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&updated); err != nil {
		return domain.Config{}, fmt.Errorf("failed to convert to configuration: %w", err)
	}
	if updated.AIModels == nil {
		updated.AIModels = []domain.AIModel{}
	}
	return updated, nil
}
