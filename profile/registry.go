package profile

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// DefaultName is the profile used when none is requested.
const DefaultName = "csujad"

// Registry holds loaded profiles.
type Registry struct {
	profiles map[string]*Profile
	origin   map[string]string
}

// NewRegistry creates a registry with the embedded profiles loaded.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		profiles: make(map[string]*Profile),
		origin:   make(map[string]string),
	}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading embedded profiles: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded profile %s: %w", entry.Name(), err)
		}

		// Use filename without extension as profile name if not set
		if p.Name == "" {
			p.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.profiles[p.Name] = p
		r.origin[p.Name] = "embedded"
	}

	return r, nil
}

// LoadUserProfiles adds profiles from the user profiles directory,
// replacing embedded profiles with the same name. A missing directory is
// not an error.
func (r *Registry) LoadUserProfiles() error {
	dir, err := ProfilesDir()
	if err != nil {
		return err
	}
	return r.LoadFromDirectory(dir)
}

// LoadFromDirectory loads all *.yaml and *.yml profiles from dir.
func (r *Registry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}

		path := filepath.Join(dir, name)
		p, err := LoadFile(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		r.profiles[p.Name] = p
		r.origin[p.Name] = path
	}

	return nil
}

// Get retrieves a profile by name.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Origin reports where a profile was loaded from: "embedded" or a file path.
func (r *Registry) Origin(name string) string {
	return r.origin[name]
}

// List returns all registered profile names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
