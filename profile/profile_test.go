package profile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedProfiles(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	p, ok := r.Get(DefaultName)
	if !ok {
		t.Fatalf("embedded profile %q missing; have %v", DefaultName, r.List())
	}
	if p.LocalIDSegments != 4 {
		t.Errorf("LocalIDSegments = %d, want 4", p.LocalIDSegments)
	}
	if !reflect.DeepEqual(p.ExternalExtensions, DefaultExternalExtensions) {
		t.Errorf("ExternalExtensions = %v", p.ExternalExtensions)
	}
	if p.Source.Label != "CSUJAD" {
		t.Errorf("Source.Label = %q", p.Source.Label)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if r.Origin(DefaultName) != "embedded" {
		t.Errorf("Origin() = %q", r.Origin(DefaultName))
	}

	nisei, ok := r.Get("csujad-nisei")
	if !ok {
		t.Fatal("csujad-nisei profile missing")
	}
	if nisei.LocalIDSegments != 3 || nisei.MultiValueSeparator != DefaultSeparator {
		t.Errorf("csujad-nisei = %+v", nisei)
	}
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse([]byte("name: bare\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.LocalIDSegments != DefaultSegments ||
		p.MultiValueSeparator != DefaultSeparator ||
		p.ExternalURLBase != DefaultExternalURLBase ||
		p.Vocabularies.Genres != DefaultGenres {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Profile) {}},
		{name: "negative segments", mutate: func(p *Profile) { p.LocalIDSegments = -1 }, wantErr: true},
		{name: "dotted extension", mutate: func(p *Profile) { p.ExternalExtensions = []string{".mp3"} }, wantErr: true},
		{name: "url base without slash", mutate: func(p *Profile) { p.ExternalURLBase = "https://example.org" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Name: "x"}
			p.ApplyDefaults()
			tt.mutate(p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserProfilesShadowEmbedded(t *testing.T) {
	dir := t.TempDir()
	SetConfigDir(dir)
	defer SetConfigDir("")

	profilesDir := filepath.Join(dir, "profiles")
	if err := os.MkdirAll(profilesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(profilesDir, "csujad.yaml"), []byte("name: csujad\nlocalid_segments: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(profilesDir, "local.yml"), []byte("localid_segments: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.LoadUserProfiles(); err != nil {
		t.Fatalf("LoadUserProfiles() error = %v", err)
	}

	p, _ := r.Get("csujad")
	if p.LocalIDSegments != 5 {
		t.Errorf("user profile should shadow embedded, LocalIDSegments = %d", p.LocalIDSegments)
	}
	if _, ok := r.Get("local"); !ok {
		t.Errorf("unnamed user profile should be registered by file name; have %v", r.List())
	}
}

func TestVocabularyPaths(t *testing.T) {
	p := &Profile{Vocabularies: Vocabularies{Topics: "t.csv", Facilities: "/abs/f.csv", Genres: "g.csv"}}
	topics, facilities, genres := p.VocabularyPaths("data")
	if topics != filepath.Join("data", "t.csv") || facilities != "/abs/f.csv" || genres != filepath.Join("data", "g.csv") {
		t.Errorf("VocabularyPaths() = %s, %s, %s", topics, facilities, genres)
	}
}
