// Package filematch derives object identifiers from binary file names and
// joins files to CONTENTdm records to build DDR file rows.
package filematch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidFilename is returned when a file name cannot be parsed.
var ErrInvalidFilename = errors.New("invalid filename")

// DefaultExternal lists the audio/video extensions whose files are hosted
// externally rather than uploaded.
var DefaultExternal = []string{"mp3", "mp4", "m4v", "wav", "mpg"}

// Parsed is what a file name says about the object it belongs to.
type Parsed struct {
	LocalID  string
	Sort     int
	External bool
	// Rule names the naming convention that matched.
	Rule string
}

// Parser parses binary file names for one collection.
type Parser struct {
	// Segments is the number of "_"-separated segments in the collection's
	// Local IDs, e.g. 4 for "ike_01_01_006".
	Segments int

	external map[string]bool
}

// NewParser returns a parser for Local IDs with the given segment count.
// Extensions are compared case-sensitively.
func NewParser(segments int, external []string) *Parser {
	p := &Parser{Segments: segments, external: make(map[string]bool, len(external))}
	for _, ext := range external {
		p.external[ext] = true
	}
	return p
}

// IsExternal reports whether ext (without the dot) is an external type.
func (p *Parser) IsExternal(ext string) bool {
	return p.external[ext]
}

// rule is one file naming convention. Rules are tried in order and the first
// whose match reports true decides the Local ID and sort order.
type rule struct {
	name    string
	match   func(p *Parser, base string) bool
	extract func(base string) (localID string, sort int, err error)
}

var rules = []rule{
	// ike_01_01_003_Part3
	{
		name: "part-suffix",
		match: func(_ *Parser, base string) bool {
			return strings.Contains(base, "_Part")
		},
		extract: func(base string) (string, int, error) {
			prefix, last := splitLast(base)
			t := strings.LastIndex(last, "t")
			if t < 0 {
				return "", 0, fmt.Errorf("no part number in %q", last)
			}
			sort, err := atoi(last[t+1:])
			if err != nil {
				return "", 0, fmt.Errorf("part number: %w", err)
			}
			return prefix, sort, nil
		},
	},
	// ike_05_23_012b
	{
		name: "letter-suffix",
		match: func(_ *Parser, base string) bool {
			trimmed := strings.TrimRightFunc(base, unicode.IsSpace)
			return trimmed != "" && isASCIILetter(trimmed[len(trimmed)-1])
		},
		extract: func(base string) (string, int, error) {
			trimmed := strings.TrimRightFunc(base, unicode.IsSpace)
			c := trimmed[len(trimmed)-1]
			return trimmed[:len(trimmed)-1], int(unicode.ToLower(rune(c))) - 96, nil
		},
	},
	// nis_05_035_174_0001 where the Local ID is nis_05_035_174
	{
		name: "extra-segment",
		match: func(p *Parser, base string) bool {
			return len(strings.Split(base, "_")) > p.Segments
		},
		extract: func(base string) (string, int, error) {
			prefix, last := splitLast(base)
			sort, err := atoi(last)
			if err != nil {
				return "", 0, fmt.Errorf("trailing segment: %w", err)
			}
			return prefix, sort, nil
		},
	},
	{
		name:  "fallback",
		match: func(*Parser, string) bool { return true },
		extract: func(base string) (string, int, error) {
			return base, 1, nil
		},
	},
}

// Parse derives the Local ID, sort order and external flag from a bare file
// name such as "ike_05_23_012b.jpg".
func (p *Parser) Parse(name string) (Parsed, error) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return Parsed{}, fmt.Errorf("%w: %q has no extension", ErrInvalidFilename, name)
	}
	base, ext := name[:dot], name[dot+1:]
	if strings.TrimSpace(base) == "" {
		return Parsed{}, fmt.Errorf("%w: %q has no base name", ErrInvalidFilename, name)
	}

	for _, r := range rules {
		if !r.match(p, base) {
			continue
		}
		localID, sort, err := r.extract(base)
		if err != nil {
			return Parsed{}, fmt.Errorf("%w: %q (%s): %v", ErrInvalidFilename, name, r.name, err)
		}
		if localID == "" {
			return Parsed{}, fmt.Errorf("%w: %q (%s): empty local id", ErrInvalidFilename, name, r.name)
		}
		return Parsed{
			LocalID:  localID,
			Sort:     sort,
			External: p.IsExternal(ext),
			Rule:     r.name,
		}, nil
	}

	// unreachable: fallback always matches
	return Parsed{}, fmt.Errorf("%w: %q", ErrInvalidFilename, name)
}

// splitLast splits id at its final "_". Without one, the prefix is empty and
// the whole id is the last segment.
func splitLast(id string) (prefix, last string) {
	i := strings.LastIndex(id, "_")
	if i < 0 {
		return "", id
	}
	return id[:i], id[i+1:]
}

// atoi parses a non-empty run of ASCII digits.
func atoi(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty number")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%q is not a number", s)
		}
	}
	return strconv.Atoi(s)
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
