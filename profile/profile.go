// Package profile holds per-collection conversion settings.
//
// Profiles are YAML documents. A set of defaults is embedded in the binary;
// user profiles live in ~/.csujadconvert/profiles and shadow embedded ones
// with the same name.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes how one collection's deliveries are named and mapped.
type Profile struct {
	// Name is the profile identifier (e.g., "csujad")
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// LocalIDSegments is the number of "_"-separated segments in the
	// collection's Local IDs; "ike_01_01_006" has 4.
	LocalIDSegments int `yaml:"localid_segments" json:"localid_segments"`

	// ExternalExtensions lists file extensions hosted outside the repository
	ExternalExtensions []string `yaml:"external_extensions,omitempty" json:"external_extensions,omitempty"`

	// MultiValueSeparator separates values within a CONTENTdm cell
	MultiValueSeparator string `yaml:"multi_value_separator,omitempty" json:"multi_value_separator,omitempty"`

	// ExternalURLBase prefixes external file download links
	ExternalURLBase string `yaml:"external_url_base,omitempty" json:"external_url_base,omitempty"`

	// Vocabularies points at the vocabulary lookup tables
	Vocabularies Vocabularies `yaml:"vocabularies,omitempty" json:"vocabularies,omitempty"`

	// Source describes the contributing project for entity text fields
	Source Source `yaml:"source,omitempty" json:"source,omitempty"`
}

// Vocabularies holds lookup table paths. Relative paths are resolved
// against the vocabulary directory given at run time.
type Vocabularies struct {
	Topics     string `yaml:"topics,omitempty" json:"topics,omitempty"`
	Facilities string `yaml:"facilities,omitempty" json:"facilities,omitempty"`
	Genres     string `yaml:"genres,omitempty" json:"genres,omitempty"`
}

// Source names the contributing project.
type Source struct {
	// Label prefixes vendor fields in notes and alternate ids (e.g., "CSUJAD")
	Label string `yaml:"label,omitempty" json:"label,omitempty"`

	// SiteName is the project site linked from entity descriptions
	SiteName string `yaml:"site_name,omitempty" json:"site_name,omitempty"`
}

// Defaults applied when a profile leaves a field empty.
const (
	DefaultSegments        = 4
	DefaultSeparator       = ";"
	DefaultExternalURLBase = "https://archive.org/download/"
	DefaultTopics          = "topicmapping.csv"
	DefaultFacilities      = "facilities.csv"
	DefaultGenres          = "genres.csv"
)

// DefaultExternalExtensions are the audio/video types hosted externally.
var DefaultExternalExtensions = []string{"mp3", "mp4", "m4v", "wav", "mpg"}

// ApplyDefaults fills empty fields with defaults.
func (p *Profile) ApplyDefaults() {
	if p.LocalIDSegments == 0 {
		p.LocalIDSegments = DefaultSegments
	}
	if len(p.ExternalExtensions) == 0 {
		p.ExternalExtensions = append([]string(nil), DefaultExternalExtensions...)
	}
	if p.MultiValueSeparator == "" {
		p.MultiValueSeparator = DefaultSeparator
	}
	if p.ExternalURLBase == "" {
		p.ExternalURLBase = DefaultExternalURLBase
	}
	if p.Vocabularies.Topics == "" {
		p.Vocabularies.Topics = DefaultTopics
	}
	if p.Vocabularies.Facilities == "" {
		p.Vocabularies.Facilities = DefaultFacilities
	}
	if p.Vocabularies.Genres == "" {
		p.Vocabularies.Genres = DefaultGenres
	}
}

// Validate checks that the profile is usable.
func (p *Profile) Validate() error {
	if p.LocalIDSegments < 1 {
		return fmt.Errorf("profile %q: localid_segments must be positive, got %d", p.Name, p.LocalIDSegments)
	}
	for _, ext := range p.ExternalExtensions {
		if ext == "" || strings.HasPrefix(ext, ".") {
			return fmt.Errorf("profile %q: external extension %q must be non-empty and without a dot", p.Name, ext)
		}
	}
	if !strings.HasSuffix(p.ExternalURLBase, "/") {
		return fmt.Errorf("profile %q: external_url_base must end with /", p.Name)
	}
	return nil
}

// VocabularyPaths returns the topic, facility and genre table paths with
// relative paths resolved against dir.
func (p *Profile) VocabularyPaths(dir string) (topics, facilities, genres string) {
	resolve := func(path string) string {
		if filepath.IsAbs(path) || dir == "" {
			return path
		}
		return filepath.Join(dir, path)
	}
	return resolve(p.Vocabularies.Topics), resolve(p.Vocabularies.Facilities), resolve(p.Vocabularies.Genres)
}

// Parse decodes a profile from YAML and applies defaults.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	p.ApplyDefaults()
	return &p, nil
}

// LoadFile reads a profile from a file path. The file name is used as the
// profile name when the document has none.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), ".yaml"), ".yml")
	}
	return p, nil
}

// Marshal encodes the profile as YAML.
func (p *Profile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling profile: %w", err)
	}
	return data, nil
}

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.csujadconvert is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".csujadconvert"), nil
}

// ProfilesDir returns the user profiles directory.
func ProfilesDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "profiles"), nil
}
