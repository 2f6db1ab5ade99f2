package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mars-rover/game/engine"
	"github.com/wricardo/mars-rover/game/service"
)

var (
	ErrWorldNotFound = errors.New("world not found")
	ErrInvalidWorld  = errors.New("invalid world")
)

// Extensions recognised as world files, in lookup order
var worldExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles world loading and caching
type Manager struct {
	configDir    string
	defaultName  string
	defaultWorld *engine.WorldConfig
	worlds       map[string]*engine.WorldConfig
	mu           sync.RWMutex
}

// NewManager creates a new world manager. defaultName names the world
// returned by GetDefault; when it cannot be loaded the first valid world in
// the directory is used, and failing that the built-in open plain.
func NewManager(configDir, defaultName string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	if defaultName == "" {
		defaultName = engine.DefaultWorldID
	}

	m := &Manager{
		configDir:   configDir,
		defaultName: defaultName,
		worlds:      make(map[string]*engine.WorldConfig),
	}

	if err := m.loadDefaultWorld(); err != nil {
		return nil, fmt.Errorf("failed to load default world: %w", err)
	}

	return m, nil
}

// Dir returns the directory the manager reads worlds from
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadWorld loads a world by name. The name may carry an extension; without
// one, .json, .yaml and .yml are tried in that order.
func (m *Manager) LoadWorld(name string) (*engine.WorldConfig, error) {
	key := worldID(name)

	m.mu.RLock()
	// Check cache first
	if world, exists := m.worlds[key]; exists {
		m.mu.RUnlock()
		return world, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if world, exists := m.worlds[key]; exists {
		return world, nil
	}

	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}

	world, err := engine.DecodeWorldConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}

	if err := engine.ValidateWorldConfig(world); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}

	m.worlds[key] = world
	return world, nil
}

// ListWorlds returns information about all valid worlds in the directory.
// Invalid files are skipped; use ValidateWorlds to see why.
func (m *Manager) ListWorlds() ([]*service.WorldInfo, error) {
	files, err := m.worldFiles()
	if err != nil {
		return nil, err
	}

	var worlds []*service.WorldInfo
	for _, file := range files {
		id := worldID(file)

		world, err := m.LoadWorld(file)
		if err != nil {
			continue
		}

		worlds = append(worlds, &service.WorldInfo{
			Filename:      file,
			WorldID:       id,
			Name:          world.Name,
			Description:   world.Description,
			Boundary:      world.Boundary,
			ObstacleCount: len(world.Obstacles),
		})
	}

	return worlds, nil
}

// GetDefault returns the default world
func (m *Manager) GetDefault() *engine.WorldConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultWorld
}

// SetDefault sets the default world by name
func (m *Manager) SetDefault(name string) error {
	world, err := m.LoadWorld(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = worldID(name)
	m.defaultWorld = world
	return nil
}

// RefreshCache drops every cached world and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.worlds = make(map[string]*engine.WorldConfig)
	m.mu.Unlock()

	return m.loadDefaultWorld()
}

// SaveWorld validates a world and writes it to disk. The extension of name
// picks the format; without one the world is stored as JSON.
func (m *Manager) SaveWorld(name string, world *engine.WorldConfig) error {
	if err := engine.ValidateWorldConfig(world); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}

	filename := name
	ext := strings.ToLower(filepath.Ext(name))
	if !isWorldExtension(ext) {
		ext = ".json"
		filename = name + ext
	}
	if filepath.Base(filename) != filename {
		return fmt.Errorf("%w: world name %q must not contain a path", ErrInvalidWorld, name)
	}

	data, err := engine.EncodeWorldConfig(world, ext)
	if err != nil {
		return fmt.Errorf("failed to encode world: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write world file: %w", err)
	}

	m.mu.Lock()
	m.worlds[worldID(name)] = world
	m.mu.Unlock()

	return nil
}

// Count returns the number of cached worlds
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.worlds)
}

// loadDefaultWorld resolves the default world, falling back to the first
// valid world on disk and then to the built-in open plain
func (m *Manager) loadDefaultWorld() error {
	world, err := m.LoadWorld(m.defaultName)
	if err != nil {
		worlds, listErr := m.ListWorlds()
		if listErr != nil {
			return listErr
		}
		if len(worlds) == 0 {
			m.setDefault(engine.DefaultWorldConfig())
			return nil
		}

		world, err = m.LoadWorld(worlds[0].Filename)
		if err != nil {
			m.setDefault(engine.DefaultWorldConfig())
			return nil
		}
	}

	m.setDefault(world)
	return nil
}

func (m *Manager) setDefault(world *engine.WorldConfig) {
	m.mu.Lock()
	m.defaultWorld = world
	m.mu.Unlock()
}

// resolve maps a world name to an existing file. Callers hold m.mu.
func (m *Manager) resolve(name string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %s", ErrWorldNotFound, name)
	}

	candidates := []string{name}
	if !isWorldExtension(strings.ToLower(filepath.Ext(name))) {
		candidates = candidates[:0]
		for _, ext := range worldExtensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, candidate := range candidates {
		path := filepath.Join(m.configDir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrWorldNotFound, name)
}

// worldFiles lists world files in the directory, sorted by name
func (m *Manager) worldFiles() ([]string, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isWorldExtension(strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

func isWorldExtension(ext string) bool {
	for _, known := range worldExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// worldID strips a known extension so "crater" and "crater.yaml" share a cache slot
func worldID(name string) string {
	ext := filepath.Ext(name)
	if isWorldExtension(strings.ToLower(ext)) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
