package filematch

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		segments     int
		file         string
		wantLocalID  string
		wantSort     int
		wantExternal bool
		wantRule     string
	}{
		{
			name:        "part suffix",
			segments:    4,
			file:        "ike_01_01_003_Part3.pdf",
			wantLocalID: "ike_01_01_003",
			wantSort:    3,
			wantRule:    "part-suffix",
		},
		{
			name:        "multi-digit part",
			segments:    4,
			file:        "ike_01_01_003_Part12.pdf",
			wantLocalID: "ike_01_01_003",
			wantSort:    12,
			wantRule:    "part-suffix",
		},
		{
			name:        "trailing letter",
			segments:    4,
			file:        "ike_05_23_012b.jpg",
			wantLocalID: "ike_05_23_012",
			wantSort:    2,
			wantRule:    "letter-suffix",
		},
		{
			name:        "trailing uppercase letter",
			segments:    4,
			file:        "ike_05_23_012C.jpg",
			wantLocalID: "ike_05_23_012",
			wantSort:    3,
			wantRule:    "letter-suffix",
		},
		{
			name:        "trailing letter before whitespace",
			segments:    4,
			file:        "ike_05_23_012a .jpg",
			wantLocalID: "ike_05_23_012",
			wantSort:    1,
			wantRule:    "letter-suffix",
		},
		{
			name:        "extra numeric segment",
			segments:    3,
			file:        "nis_05_035_174_0001.tif",
			wantLocalID: "nis_05_035_174",
			wantSort:    1,
			wantRule:    "extra-segment",
		},
		{
			name:        "extra numeric segment keeps value",
			segments:    4,
			file:        "nis_05_035_174_0017.tif",
			wantLocalID: "nis_05_035_174",
			wantSort:    17,
			wantRule:    "extra-segment",
		},
		{
			name:        "fallback",
			segments:    4,
			file:        "ike_01_01_006.jpg",
			wantLocalID: "ike_01_01_006",
			wantSort:    1,
			wantRule:    "fallback",
		},
		{
			name:        "part suffix wins over extra segment",
			segments:    2,
			file:        "ike_01_01_003_Part3.pdf",
			wantLocalID: "ike_01_01_003",
			wantSort:    3,
			wantRule:    "part-suffix",
		},
		{
			name:        "letter suffix wins over extra segment",
			segments:    2,
			file:        "ike_05_23_012b.jpg",
			wantLocalID: "ike_05_23_012",
			wantSort:    2,
			wantRule:    "letter-suffix",
		},
		{
			name:         "external audio",
			segments:     4,
			file:         "ike_02_01_001.mp3",
			wantLocalID:  "ike_02_01_001",
			wantSort:     1,
			wantExternal: true,
			wantRule:     "fallback",
		},
		{
			name:         "external with letter",
			segments:     4,
			file:         "ike_02_01_001b.mp4",
			wantLocalID:  "ike_02_01_001",
			wantSort:     2,
			wantExternal: true,
			wantRule:     "letter-suffix",
		},
		{
			name:        "extension match is case-sensitive",
			segments:    4,
			file:        "ike_02_01_001.MP3",
			wantLocalID: "ike_02_01_001",
			wantSort:    1,
			wantRule:    "fallback",
		},
		{
			name:        "only last dot splits the extension",
			segments:    4,
			file:        "ike.01.003.wav.txt",
			wantLocalID: "ike.01.003.wa",
			wantSort:    22,
			wantRule:    "letter-suffix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.segments, DefaultExternal)
			got, err := p.Parse(tt.file)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.file, err)
			}
			if got.LocalID != tt.wantLocalID {
				t.Errorf("LocalID = %q, want %q", got.LocalID, tt.wantLocalID)
			}
			if got.Sort != tt.wantSort {
				t.Errorf("Sort = %d, want %d", got.Sort, tt.wantSort)
			}
			if got.External != tt.wantExternal {
				t.Errorf("External = %v, want %v", got.External, tt.wantExternal)
			}
			if got.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", got.Rule, tt.wantRule)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name     string
		segments int
		file     string
	}{
		{name: "no extension", segments: 4, file: "ike_01_01_006"},
		{name: "empty base", segments: 4, file: ".mp3"},
		{name: "blank base", segments: 4, file: "  .mp3"},
		{name: "part without number", segments: 4, file: "ike_01_01_003_Part.pdf"},
		{name: "non-numeric extra segment", segments: 3, file: "nis_05_035_17x4_00x1.tif"},
		{name: "single letter name", segments: 4, file: "a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.segments, DefaultExternal)
			_, err := p.Parse(tt.file)
			if !errors.Is(err, ErrInvalidFilename) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalidFilename", tt.file, err)
			}
		})
	}
}
