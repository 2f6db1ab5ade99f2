package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateWorldConfig validates a world configuration for correctness
func ValidateWorldConfig(config *WorldConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate boundary
	if config.Boundary < MinBoundary || config.Boundary > MaxBoundary {
		return fmt.Errorf("config validation: boundary must be between %d and %d, got %d", MinBoundary, MaxBoundary, config.Boundary)
	}

	if !config.Facing.IsValid() {
		return fmt.Errorf("config validation: facing must be one of N, E, S, W")
	}

	// Validate start
	b := config.Boundary
	if config.Start.X < -b || config.Start.X > b || config.Start.Y < -b || config.Start.Y > b {
		return fmt.Errorf("config validation: start %s is outside the boundary [-%d, %d]", config.Start, b, b)
	}

	// Validate obstacles
	if len(config.Obstacles) > MaxObstacles {
		return fmt.Errorf("config validation: at most %d obstacles allowed, got %d", MaxObstacles, len(config.Obstacles))
	}
	seen := make(map[Position]bool, len(config.Obstacles))
	for i, o := range config.Obstacles {
		if seen[o] {
			return fmt.Errorf("config validation: obstacle %d at %s is a duplicate", i+1, o)
		}
		seen[o] = true
		if o == config.Start {
			return fmt.Errorf("config validation: obstacle %d sits on the start cell %s", i+1, o)
		}
	}

	return nil
}

// DefaultWorldConfig returns the built-in world: boundary 10, origin, facing North, no obstacles
func DefaultWorldConfig() *WorldConfig {
	return &WorldConfig{
		Name:        DefaultWorldID,
		Description: "Open plain with no obstacles",
		Boundary:    DefaultBound,
		Start:       Position{},
		Facing:      North,
	}
}

// NewRoverFromConfig builds a rover positioned as the config describes
func NewRoverFromConfig(config *WorldConfig) (*Rover, error) {
	if err := ValidateWorldConfig(config); err != nil {
		return nil, err
	}
	radar := NewRadar(config.Boundary, config.Start, config.Facing, config.Obstacles...)
	return NewRover(radar), nil
}

// DecodeWorldConfig parses a world file body. ext selects the format:
// ".yaml"/".yml" use YAML, anything else JSON.
func DecodeWorldConfig(data []byte, ext string) (*WorldConfig, error) {
	var config WorldConfig

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	}

	return &config, nil
}

// EncodeWorldConfig renders a world in the format selected by ext
func EncodeWorldConfig(config *WorldConfig, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	default:
		return json.MarshalIndent(config, "", "  ")
	}
}

// LoadWorldConfig loads and validates a world configuration file
func LoadWorldConfig(filename string) (*WorldConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeWorldConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if err := ValidateWorldConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}
