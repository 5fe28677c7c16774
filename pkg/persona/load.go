package persona

import (
	"fmt"
	"os"

	"github.com/borderdrill/borderdrill/pkg/models"
	"gopkg.in/yaml.v3"
)

type personaFile struct {
	Personas []models.Persona `yaml:"personas"`
}

// Load reads a YAML persona file and builds a Registry from it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas: %w", err)
	}

	var f personaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse personas: %w", err)
	}

	return New(f.Personas)
}
