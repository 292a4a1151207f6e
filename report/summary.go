// Package report summarizes conversion runs.
package report

import (
	"fmt"
	"time"
)

// Pipeline names.
const (
	Entities = "entities"
	Files    = "files"
)

// Summary holds the counters of one run.
type Summary struct {
	Pipeline     string
	RunID        string
	CollectionID string
	Role         string
	Output       string
	Started      time.Time
	Finished     time.Time

	// RowsProcessed counts CONTENTdm rows read.
	RowsProcessed int
	// ObjectsFound counts rows that describe top-level objects.
	ObjectsFound int
	// RowsWritten counts entity or file rows written to the output.
	RowsWritten int
	// PartsSkipped counts compound object part rows.
	PartsSkipped int

	FilesDiscovered    int
	InvalidFilenames   int
	HashFailures       int
	OverlappingMatches int
}

// Line renders the one-line summary printed at the end of a run.
func (s *Summary) Line() string {
	if s.Pipeline == Entities {
		return fmt.Sprintf("%d rows processed. %d new entity rows created. %d partial object rows discarded.",
			s.RowsProcessed, s.RowsWritten, s.PartsSkipped)
	}
	return fmt.Sprintf("%d rows processed. %d objects found. %d new file rows created. %d partial object rows discarded.",
		s.RowsProcessed, s.ObjectsFound, s.RowsWritten, s.PartsSkipped)
}

// Counts returns the non-identifying counters as ordered label/value pairs.
func (s *Summary) Counts() []Count {
	counts := []Count{
		{"Rows processed", s.RowsProcessed},
		{"Objects found", s.ObjectsFound},
		{"Rows written", s.RowsWritten},
		{"Parts skipped", s.PartsSkipped},
	}
	if s.Pipeline == Files {
		counts = append(counts,
			Count{"Files discovered", s.FilesDiscovered},
			Count{"Invalid filenames", s.InvalidFilenames},
			Count{"Hash failures", s.HashFailures},
			Count{"Overlapping matches", s.OverlappingMatches},
		)
	}
	return counts
}

// Count is a labeled counter.
type Count struct {
	Label string
	Value int
}
