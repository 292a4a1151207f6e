package entity

import (
	"context"
	"fmt"

	"github.com/densho/csujadconvert/contentdm"
	"github.com/densho/csujadconvert/report"
)

// Sink receives entity rows in emission order.
type Sink interface {
	Append(row []string) error
}

// Run maps every object record to an entity row and appends it to sink.
// Part records are counted in summary and skipped. Entity ids are numbered
// from 1 in record order.
func (m *Mapper) Run(ctx context.Context, records []contentdm.Record, sink Sink, summary *report.Summary) error {
	logger := m.logger()

	n := 0
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec := &records[i]
		summary.RowsProcessed++

		if rec.IsPart() {
			summary.PartsSkipped++
			logger.Info("row did not have Project ID; looks like a compound object part", "row", rec.Row, "local_id", rec.LocalID)
			continue
		}
		summary.ObjectsFound++

		n++
		row := m.Map(rec, n)
		if err := sink.Append(row.Values()); err != nil {
			return fmt.Errorf("writing entity row %s: %w", row.ID, err)
		}
		summary.RowsWritten++
		logger.Debug("wrote entity row", "id", row.ID, "local_id", rec.LocalID)
	}

	return nil
}
