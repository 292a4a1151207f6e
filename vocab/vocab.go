// Package vocab loads the controlled vocabulary tables used to map CONTENTdm
// subjects, facilities and genres to DDR terms.
package vocab

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/cases"

	"github.com/densho/csujadconvert/contentdm"
)

// Topic maps a CONTENTdm subject heading to a Densho topic term.
type Topic struct {
	CSUTerm    string
	DenshoTerm string
	ID         string
}

// Facility is a Densho facility (camp) term.
type Facility struct {
	Title string
	ID    string
}

// Genre is a DDR genre.
type Genre struct {
	Title string
	ID    string
}

// Tables holds the loaded vocabularies. Lookups return the first entry in
// file order.
type Tables struct {
	Topics     []Topic
	Facilities []Facility
	Genres     []Genre

	topics     map[string]int
	facilities map[string]int
	genres     map[string]int
}

// New indexes the given entries.
func New(topics []Topic, facilities []Facility, genres []Genre) *Tables {
	t := &Tables{
		Topics:     topics,
		Facilities: facilities,
		Genres:     genres,
		topics:     make(map[string]int, len(topics)),
		facilities: make(map[string]int, len(facilities)),
		genres:     make(map[string]int, len(genres)),
	}
	for i, v := range topics {
		if _, ok := t.topics[v.CSUTerm]; !ok {
			t.topics[v.CSUTerm] = i
		}
	}
	for i, v := range facilities {
		if _, ok := t.facilities[v.Title]; !ok {
			t.facilities[v.Title] = i
		}
	}
	for i, v := range genres {
		key := fold(v.Title)
		if _, ok := t.genres[key]; !ok {
			t.genres[key] = i
		}
	}
	return t
}

// Topic looks up a subject heading by exact CSU term.
func (t *Tables) Topic(term string) (Topic, bool) {
	i, ok := t.topics[term]
	if !ok {
		return Topic{}, false
	}
	return t.Topics[i], true
}

// Facility looks up a facility by exact title.
func (t *Tables) Facility(title string) (Facility, bool) {
	i, ok := t.facilities[title]
	if !ok {
		return Facility{}, false
	}
	return t.Facilities[i], true
}

// Genre looks up a genre by title, ignoring case.
func (t *Tables) Genre(title string) (Genre, bool) {
	i, ok := t.genres[fold(title)]
	if !ok {
		return Genre{}, false
	}
	return t.Genres[i], true
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Load reads the three vocabulary CSV files.
func Load(topicsPath, facilitiesPath, genresPath string) (*Tables, error) {
	var (
		topics     []Topic
		facilities []Facility
		genres     []Genre
	)

	if err := readFile(topicsPath, func(r io.Reader) (err error) {
		topics, err = ReadTopics(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(facilitiesPath, func(r io.Reader) (err error) {
		facilities, err = ReadFacilities(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(genresPath, func(r io.Reader) (err error) {
		genres, err = ReadGenres(r)
		return err
	}); err != nil {
		return nil, err
	}

	return New(topics, facilities, genres), nil
}

// ReadTopics reads a topic mapping table with "CSU term", "Densho term"
// and "Densho term ID" columns.
func ReadTopics(r io.Reader) ([]Topic, error) {
	rows, err := contentdm.ReadTable(r, "CSU term", "Densho term", "Densho term ID")
	if err != nil {
		return nil, err
	}
	topics := make([]Topic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, Topic{
			CSUTerm:    row["CSU term"],
			DenshoTerm: row["Densho term"],
			ID:         row["Densho term ID"],
		})
	}
	return topics, nil
}

// ReadFacilities reads a facility table with "title" and "DESC_camp_id"
// columns.
func ReadFacilities(r io.Reader) ([]Facility, error) {
	rows, err := contentdm.ReadTable(r, "title", "DESC_camp_id")
	if err != nil {
		return nil, err
	}
	facilities := make([]Facility, 0, len(rows))
	for _, row := range rows {
		facilities = append(facilities, Facility{Title: row["title"], ID: row["DESC_camp_id"]})
	}
	return facilities, nil
}

// ReadGenres reads a genre table with "title" and "id" columns.
func ReadGenres(r io.Reader) ([]Genre, error) {
	rows, err := contentdm.ReadTable(r, "title", "id")
	if err != nil {
		return nil, err
	}
	genres := make([]Genre, 0, len(rows))
	for _, row := range rows {
		genres = append(genres, Genre{Title: row["title"], ID: row["id"]})
	}
	return genres, nil
}

func readFile(path string, read func(io.Reader) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening vocabulary %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing vocabulary %s: %w", path, cerr)
		}
	}()

	if err := read(f); err != nil {
		return fmt.Errorf("reading vocabulary %s: %w", path, err)
	}
	return nil
}
