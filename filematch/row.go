package filematch

import (
	"strconv"
)

// Columns is the DDR file import CSV header.
var Columns = []string{
	"id",
	"external",
	"role",
	"basename_orig",
	"mimetype",
	"public",
	"rights",
	"sort",
	"thumb",
	"label",
	"digitize_person",
	"tech_notes",
	"external_urls",
	"links",
	"sha1",
	"sha256",
	"md5",
	"size",
}

// Row is one DDR file import row.
type Row struct {
	ID             string
	External       bool
	Role           string
	BasenameOrig   string
	MIMEType       string
	Public         string
	Rights         string
	Sort           int
	Thumb          string
	Label          string
	DigitizePerson string
	TechNotes      string
	ExternalURLs   string
	Links          string
	SHA1           string
	SHA256         string
	MD5            string
	// Size is only written for external files.
	Size int64
}

// Values returns the row's cells in Columns order.
func (r *Row) Values() []string {
	external := "0"
	size := ""
	if r.External {
		external = "1"
		size = strconv.FormatInt(r.Size, 10)
	}
	return []string{
		r.ID,
		external,
		r.Role,
		r.BasenameOrig,
		r.MIMEType,
		r.Public,
		r.Rights,
		strconv.Itoa(r.Sort),
		r.Thumb,
		r.Label,
		r.DigitizePerson,
		r.TechNotes,
		r.ExternalURLs,
		r.Links,
		r.SHA1,
		r.SHA256,
		r.MD5,
		size,
	}
}
