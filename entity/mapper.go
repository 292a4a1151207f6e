package entity

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/densho/csujadconvert/contentdm"
	"github.com/densho/csujadconvert/vocab"
)

// Default source description used when a Mapper leaves them empty.
const (
	DefaultSourceLabel = "CSUJAD"
	DefaultSiteName    = "California State Universities Japanese American Digitization project"
)

// Genre ids with special handling.
const (
	GenreInterview = "interview"
	GenreDefault   = "misc_document"
)

// formats maps CONTENTdm Type values to DDR formats.
var formats = []struct {
	csu string
	ddr string
}{
	{"Text", "doc"},
	{"Image", "img"},
	{"Moving Image", "av"},
	{"Sound", "av"},
}

// Mapper converts object records to entity rows.
type Mapper struct {
	CollectionID string
	Vocab        *vocab.Tables

	// Separator splits multi-value cells. Defaults to ";".
	Separator string

	// SourceLabel prefixes alternate ids and vendor notes.
	SourceLabel string
	// SiteName is the project site named in descriptions.
	SiteName string

	Logger *slog.Logger
}

// Map converts rec into the entity row numbered n within the collection.
func (m *Mapper) Map(rec *contentdm.Record, n int) Row {
	return Row{
		ID:              fmt.Sprintf("%s-%d", m.CollectionID, n),
		Status:          "completed",
		Public:          "1",
		Title:           rec.Title,
		Description:     m.description(rec),
		Creation:        rec.DateCreated,
		Location:        rec.Location,
		Creators:        rec.Creator,
		Language:        rec.Language,
		Genre:           m.genre(rec),
		Format:          m.format(rec),
		Extent:          rec.SourceDescription,
		Contributor:     contentdm.FirstValue(rec.ContributingRepository, m.separator()),
		AlternateID:     m.alternateID(rec),
		Credit:          rec.DDRCreditText,
		Topics:          m.topics(rec),
		Facility:        m.facility(rec),
		Rights:          rec.DDRRights,
		RightsStatement: rec.Rights,
		Notes:           m.notes(rec),
	}
}

func (m *Mapper) alternateID(rec *contentdm.Record) string {
	label := m.sourceLabel()
	return fmt.Sprintf("%s Local ID: %s, %s Project ID: %s", label, rec.LocalID, label, rec.ProjectID)
}

func (m *Mapper) description(rec *contentdm.Record) string {
	site := m.SiteName
	if site == "" {
		site = DefaultSiteName
	}
	return fmt.Sprintf(`%s See this object in the %s site: <a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		rec.Description, site, rec.ReferenceURL, rec.LocalID)
}

// facility resolves "Category--Title" values against the facility table.
func (m *Mapper) facility(rec *contentdm.Record) string {
	var b strings.Builder
	for _, v := range contentdm.SplitValues(rec.Facility, m.separator()) {
		if v == "" {
			continue
		}
		title := v
		if parts := strings.Split(v, "--"); len(parts) > 1 {
			title = parts[1]
		}
		f, ok := m.Vocab.Facility(title)
		if !ok {
			m.logger().Debug("facility not in vocabulary", "row", rec.Row, "facility", title)
			continue
		}
		fmt.Fprintf(&b, "term:%s|id:%s;", f.Title, f.ID)
	}
	return b.String()
}

func (m *Mapper) topics(rec *contentdm.Record) string {
	var b strings.Builder
	for _, v := range contentdm.SplitValues(rec.Subjects, m.separator()) {
		if v == "" {
			continue
		}
		t, ok := m.Vocab.Topic(v)
		if !ok {
			m.logger().Debug("subject not in vocabulary", "row", rec.Row, "subject", v)
			continue
		}
		fmt.Fprintf(&b, "term:%s|id:%s;", strings.ReplaceAll(t.CSUTerm, "--", ": "), t.ID)
	}
	return b.String()
}

// format returns "av" when any Type value is audio or video, otherwise the
// first mapped format.
func (m *Mapper) format(rec *contentdm.Record) string {
	var first string
	for _, v := range contentdm.SplitValues(rec.Type, m.separator()) {
		for _, f := range formats {
			if f.csu != v {
				continue
			}
			if f.ddr == "av" {
				return "av"
			}
			if first == "" {
				first = f.ddr
			}
			break
		}
	}
	return first
}

// genre returns "interview" when any Genre value maps to it, otherwise the
// first mapped genre or GenreDefault.
func (m *Mapper) genre(rec *contentdm.Record) string {
	var first string
	for _, v := range contentdm.SplitValues(rec.Genre, m.separator()) {
		g, ok := m.Vocab.Genre(v)
		if !ok {
			continue
		}
		if g.ID == GenreInterview {
			return GenreInterview
		}
		if first == "" {
			first = g.ID
		}
	}
	if first == "" {
		return GenreDefault
	}
	return first
}

func (m *Mapper) notes(rec *contentdm.Record) string {
	prefix := strings.ToLower(m.sourceLabel())
	return fmt.Sprintf("[%s_Notes: %s] [%s_Date created: %s] [%s_Date modified: %s]",
		prefix, rec.Notes, prefix, rec.RecordCreated, prefix, rec.RecordModified)
}

func (m *Mapper) sourceLabel() string {
	if m.SourceLabel == "" {
		return DefaultSourceLabel
	}
	return m.SourceLabel
}

func (m *Mapper) separator() string {
	if m.Separator == "" {
		return ";"
	}
	return m.Separator
}

func (m *Mapper) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}
