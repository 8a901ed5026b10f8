package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	defaultsOnce sync.Once
	defaultsJSON map[SectionKey][]byte
	defaultsErr  error
)

// loadDefaults converts the embedded YAML to one JSON document per key so the
// sections decode through their json tags
func loadDefaults() {
	var doc map[string]any
	if err := yaml.Unmarshal(defaultsYAML, &doc); err != nil {
		defaultsErr = fmt.Errorf("parse homepage defaults: %w", err)
		return
	}
	defaultsJSON = make(map[SectionKey][]byte, len(doc))
	for raw, value := range doc {
		key, err := ParseSectionKey(raw)
		if err != nil {
			defaultsErr = fmt.Errorf("homepage defaults: %w", err)
			return
		}
		b, err := json.Marshal(value)
		if err != nil {
			defaultsErr = fmt.Errorf("homepage defaults %s: %w", key, err)
			return
		}
		defaultsJSON[key] = b
	}
}

// Defaults returns a fresh copy of the built-in content of a section
func Defaults(key SectionKey) (Section, error) {
	defaultsOnce.Do(loadDefaults)
	if defaultsErr != nil {
		return nil, defaultsErr
	}
	section, err := newSection(key)
	if err != nil {
		return nil, err
	}
	if b, ok := defaultsJSON[key]; ok {
		if err := json.Unmarshal(b, section); err != nil {
			return nil, fmt.Errorf("decode homepage defaults %s: %w", key, err)
		}
	}
	return section, nil
}
