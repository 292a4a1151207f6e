// Package entity converts CONTENTdm object records into DDR entity import
// rows.
package entity

// Columns is the DDR entity import CSV header.
var Columns = []string{
	"id",
	"status",
	"public",
	"title",
	"description",
	"creation",
	"location",
	"creators",
	"language",
	"genre",
	"format",
	"extent",
	"contributor",
	"alternate_id",
	"digitize_person",
	"digitize_organization",
	"digitize_date",
	"credit",
	"topics",
	"persons",
	"facility",
	"chronology",
	"geography",
	"parent",
	"rights",
	"rights_statement",
	"notes",
	"sort",
	"signature_id",
}

// Row is one DDR entity import row. Columns the conversion does not fill are
// written empty.
type Row struct {
	ID                   string
	Status               string
	Public               string
	Title                string
	Description          string
	Creation             string
	Location             string
	Creators             string
	Language             string
	Genre                string
	Format               string
	Extent               string
	Contributor          string
	AlternateID          string
	DigitizePerson       string
	DigitizeOrganization string
	DigitizeDate         string
	Credit               string
	Topics               string
	Persons              string
	Facility             string
	Chronology           string
	Geography            string
	Parent               string
	Rights               string
	RightsStatement      string
	Notes                string
	Sort                 string
	SignatureID          string
}

// Values returns the row's cells in Columns order.
func (r *Row) Values() []string {
	return []string{
		r.ID,
		r.Status,
		r.Public,
		r.Title,
		r.Description,
		r.Creation,
		r.Location,
		r.Creators,
		r.Language,
		r.Genre,
		r.Format,
		r.Extent,
		r.Contributor,
		r.AlternateID,
		r.DigitizePerson,
		r.DigitizeOrganization,
		r.DigitizeDate,
		r.Credit,
		r.Topics,
		r.Persons,
		r.Facility,
		r.Chronology,
		r.Geography,
		r.Parent,
		r.Rights,
		r.RightsStatement,
		r.Notes,
		r.Sort,
		r.SignatureID,
	}
}
