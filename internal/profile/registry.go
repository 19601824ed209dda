package profile

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Registry holds all available profiles keyed by name.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates an empty profile registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[string]*Profile),
	}
}

// LoadBuiltins loads the profiles compiled into the binary.
func (r *Registry) LoadBuiltins() error {
	return r.loadEmbedded(builtinFS, "builtin")
}

// LoadFromFile loads and validates one profile from a YAML file.
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}
	return r.add(data, path)
}

// LoadFromDir loads every YAML profile in a directory. Files loaded here
// shadow builtins with the same name.
func (r *Registry) LoadFromDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read profiles directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFromFile(path); err != nil {
			return fmt.Errorf("failed to load profile from %s: %w", path, err)
		}
	}

	return nil
}

func (r *Registry) loadEmbedded(fs embed.FS, dir string) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read embedded profiles: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		data, err := fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded file %s: %w", path, err)
		}
		if err := r.add(data, path); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) add(data []byte, source string) error {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse profile YAML from %s: %w", source, err)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid profile in %s: %w", source, err)
	}
	r.profiles[p.Name] = &p
	return nil
}

// Get retrieves a profile by name.
func (r *Registry) Get(name string) (*Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}
	return p, nil
}

// List returns all profile names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all profiles with their descriptions.
func (r *Registry) ListWithDescriptions() map[string]string {
	result := make(map[string]string)
	for name, p := range r.profiles {
		result[name] = p.Description
	}
	return result
}
