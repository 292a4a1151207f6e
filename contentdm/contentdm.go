// Package contentdm loads CONTENTdm metadata exports into typed records.
package contentdm

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrSchemaMismatch is returned when a CSV header lacks a required column.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Record is one row of a CONTENTdm export.
type Record struct {
	// Row is the 1-based data row number (the header is not counted).
	Row int

	LocalID                string
	ProjectID              string
	Title                  string
	Creator                string
	DateCreated            string
	Description            string
	Location               string
	Facility               string
	Subjects               string
	Type                   string
	Genre                  string
	Language               string
	SourceDescription      string
	Collection             string
	CollectionFindingAid   string
	CollectionDescription  string
	DigitalFormat          string
	ProjectName            string
	ContributingRepository string
	ViewItem               string
	Rights                 string
	Notes                  string
	ObjectFileName         string
	OCLCNumber             string
	RecordCreated          string
	RecordModified         string
	ReferenceURL           string
	ContentDMNumber        string
	ContentDMFileName      string
	ContentDMFilePath      string
	DDRRights              string
	DDRCreditText          string
}

// IsPart reports whether the row describes a part of a compound object
// rather than a top-level object. Parts have no Project ID.
func (r *Record) IsPart() bool {
	return r.ProjectID == ""
}

// columns maps CONTENTdm header names to record fields. Header names are
// case-sensitive: "Date Created" (the object date) and "Date created" (the
// record timestamp) are distinct columns.
var columns = []struct {
	name  string
	field func(*Record) *string
}{
	{"Local ID", func(r *Record) *string { return &r.LocalID }},
	{"Project ID", func(r *Record) *string { return &r.ProjectID }},
	{"Title/Name", func(r *Record) *string { return &r.Title }},
	{"Creator", func(r *Record) *string { return &r.Creator }},
	{"Date Created", func(r *Record) *string { return &r.DateCreated }},
	{"Description", func(r *Record) *string { return &r.Description }},
	{"Location", func(r *Record) *string { return &r.Location }},
	{"Facility", func(r *Record) *string { return &r.Facility }},
	{"Subjects", func(r *Record) *string { return &r.Subjects }},
	{"Type", func(r *Record) *string { return &r.Type }},
	{"Genre", func(r *Record) *string { return &r.Genre }},
	{"Language", func(r *Record) *string { return &r.Language }},
	{"Source Description", func(r *Record) *string { return &r.SourceDescription }},
	{"Collection", func(r *Record) *string { return &r.Collection }},
	{"Collection Finding Aid", func(r *Record) *string { return &r.CollectionFindingAid }},
	{"Collection Description", func(r *Record) *string { return &r.CollectionDescription }},
	{"Digital Format", func(r *Record) *string { return &r.DigitalFormat }},
	{"Project Name", func(r *Record) *string { return &r.ProjectName }},
	{"Contributing Repository", func(r *Record) *string { return &r.ContributingRepository }},
	{"View Item", func(r *Record) *string { return &r.ViewItem }},
	{"Rights", func(r *Record) *string { return &r.Rights }},
	{"Notes", func(r *Record) *string { return &r.Notes }},
	{"Object File Name", func(r *Record) *string { return &r.ObjectFileName }},
	{"OCLC number", func(r *Record) *string { return &r.OCLCNumber }},
	{"Date created", func(r *Record) *string { return &r.RecordCreated }},
	{"Date modified", func(r *Record) *string { return &r.RecordModified }},
	{"Reference URL", func(r *Record) *string { return &r.ReferenceURL }},
	{"CONTENTdm number", func(r *Record) *string { return &r.ContentDMNumber }},
	{"CONTENTdm file name", func(r *Record) *string { return &r.ContentDMFileName }},
	{"CONTENTdm file path", func(r *Record) *string { return &r.ContentDMFilePath }},
	{"DDR Rights", func(r *Record) *string { return &r.DDRRights }},
	{"DDR Credit Text", func(r *Record) *string { return &r.DDRCreditText }},
}

// Columns returns the CONTENTdm header names a record is built from.
func Columns() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// Load reads a CONTENTdm CSV export. Every column returned by Columns must be
// present in the header; extra columns are ignored.
func Load(r io.Reader) ([]Record, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrSchemaMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index, err := indexHeader(header, Columns())
	if err != nil {
		return nil, err
	}

	var records []Record
	for n := 1; ; n++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", n, err)
		}

		rec := Record{Row: n}
		for _, c := range columns {
			*c.field(&rec) = cell(row, index[c.name])
		}
		records = append(records, rec)
	}

	return records, nil
}

// LoadFile reads a CONTENTdm CSV export from disk.
func LoadFile(path string) (records []Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	records, err = Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return records, nil
}

// ReadTable reads a headed CSV into one map per row, keyed by header name.
// The required columns must all appear in the header.
func ReadTable(r io.Reader, required ...string) ([]map[string]string, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		if len(required) > 0 {
			return nil, fmt.Errorf("%w: empty input", ErrSchemaMismatch)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if _, err := indexHeader(header, required); err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = cleanHeader(header[i], i)
	}

	var rows []map[string]string
	for n := 1; ; n++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", n, err)
		}
		m := make(map[string]string, len(header))
		for i, name := range header {
			m[name] = cell(row, i)
		}
		rows = append(rows, m)
	}

	return rows, nil
}

// SplitValues splits a multi-value cell on sep and trims each value.
// Empty values are kept so that positions line up with the source.
func SplitValues(value, sep string) []string {
	parts := strings.Split(value, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// FirstValue returns the first trimmed value of a multi-value cell.
func FirstValue(value, sep string) string {
	first, _, _ := strings.Cut(value, sep)
	return strings.TrimSpace(first)
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func indexHeader(header []string, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = cleanHeader(name, i)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %q", ErrSchemaMismatch, missing)
	}
	return index, nil
}

func cleanHeader(name string, pos int) string {
	if pos == 0 {
		name = strings.TrimPrefix(name, "\ufeff")
	}
	return strings.TrimSpace(name)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
