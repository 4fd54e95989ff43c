package storyboard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// document is the response envelope of the trace service.
type document struct {
	Storyboard Storyboard `yaml:"storyboard"`
}

// Decode parses a storyboard from YAML or JSON. Both a bare frame list and
// the {storyboard: [...]} envelope are accepted.
func Decode(data []byte) (Storyboard, error) {
	var frames Storyboard
	if err := yaml.Unmarshal(data, &frames); err == nil {
		return frames, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode storyboard: %w", err)
	}
	return doc.Storyboard, nil
}

// ReadFile reads a storyboard file.
func ReadFile(path string) (Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// WriteFile writes frames as a YAML envelope.
func WriteFile(path string, frames Storyboard) error {
	data, err := yaml.Marshal(document{Storyboard: frames})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
