package filematch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/densho/csujadconvert/contentdm"
	"github.com/densho/csujadconvert/report"
)

// DefaultExternalURLBase is the download prefix for externally hosted files.
const DefaultExternalURLBase = "https://archive.org/download/"

// Sink receives assembled rows in emission order.
type Sink interface {
	Append(row []string) error
}

// RunContext owns the state of one file conversion run: the id counter, the
// output sink and the run summary.
type RunContext struct {
	CollectionID string
	Role         string

	// ExternalURLBase prefixes external file paths. Defaults to
	// DefaultExternalURLBase.
	ExternalURLBase string

	// Separator splits multi-value CONTENTdm cells. Defaults to ";".
	Separator string

	// Workers bounds the goroutines used to match records against files.
	Workers int

	Sink    Sink
	Logger  *slog.Logger
	Summary report.Summary

	next int
}

// NextID mints the next file id. Ids are numbered from 1 across the run.
func (rc *RunContext) NextID() string {
	rc.next++
	return fmt.Sprintf("%s-%d", rc.CollectionID, rc.next)
}

type hit struct {
	file int
	sort int
}

// Run joins records to files and appends one row per match to the sink.
// Rows are emitted in record order, then file discovery order. Part records
// are counted and skipped.
func (rc *RunContext) Run(ctx context.Context, records []contentdm.Record, files []BinaryFile) error {
	logger := rc.logger()

	hits, err := matchAll(ctx, records, files, rc.Workers)
	if err != nil {
		return err
	}

	owner := make(map[int]int)
	for i := range records {
		rec := &records[i]
		rc.Summary.RowsProcessed++

		if rec.IsPart() {
			rc.Summary.PartsSkipped++
			logger.Info("row did not have Project ID; looks like a compound object part", "row", rec.Row, "local_id", rec.LocalID)
			continue
		}
		rc.Summary.ObjectsFound++

		if len(hits[i]) == 0 {
			logger.Debug("no files matched", "row", rec.Row, "local_id", rec.LocalID)
			continue
		}

		for _, h := range hits[i] {
			f := &files[h.file]
			if prev, ok := owner[h.file]; ok {
				rc.Summary.OverlappingMatches++
				logger.Warn("file matches more than one object",
					"file", f.Name,
					"local_id", rec.LocalID,
					"row", rec.Row,
					"first_row", prev)
			} else {
				owner[h.file] = rec.Row
			}

			row := rc.assemble(rc.NextID(), rec, f, h.sort)
			if err := rc.Sink.Append(row.Values()); err != nil {
				return fmt.Errorf("writing file row %s: %w", row.ID, err)
			}
			rc.Summary.RowsWritten++
			logger.Debug("wrote file row", "id", row.ID, "file", f.Name, "sort", row.Sort)
		}
	}

	return nil
}

// matchAll finds the matching files of every object record. Records are
// scanned concurrently; each result slice keeps file discovery order.
func matchAll(ctx context.Context, records []contentdm.Record, files []BinaryFile, workers int) ([][]hit, error) {
	if workers < 1 {
		workers = 1
	}

	hits := make([][]hit, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		if records[i].IsPart() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := records[i].LocalID
			for j := range files {
				if sort, ok := Match(id, files[j].LocalID, files[j].Sort); ok {
					hits[i] = append(hits[i], hit{file: j, sort: sort})
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hits, nil
}

func (rc *RunContext) assemble(id string, rec *contentdm.Record, f *BinaryFile, sort int) Row {
	row := Row{
		ID:           id,
		External:     f.External,
		Role:         rc.Role,
		BasenameOrig: f.Name,
		Public:       "1",
		Rights:       rec.DDRRights,
		Sort:         sort,
		Label:        fmt.Sprintf("Part %d", sort),
	}

	if !f.External {
		row.MIMEType = contentdm.FirstValue(rec.DigitalFormat, rc.separator())
		return row
	}

	sum := f.Checksums
	row.MIMEType = sum.MIMEType
	row.SHA1 = sum.SHA1
	row.SHA256 = sum.SHA256
	row.MD5 = sum.MD5
	row.Size = sum.Size
	row.ExternalURLs = rc.externalURLs(id, f)
	return row
}

// externalURLs builds the download and stream links for an external file.
// The hosted name is "{id}-{role}-{first 10 chars of sha1}.{ext}".
func (rc *RunContext) externalURLs(id string, f *BinaryFile) string {
	base := rc.ExternalURLBase
	if base == "" {
		base = DefaultExternalURLBase
	}
	hash := f.Checksums.SHA1
	if len(hash) > 10 {
		hash = hash[:10]
	}
	path := fmt.Sprintf("%s/%s-%s-%s.%s", id, id, rc.Role, hash, f.Ext())
	return fmt.Sprintf("label:Internet Archive download|url:%s%s;label:Internet Archive stream|url:%s%s",
		base, path, base, path)
}

func (rc *RunContext) separator() string {
	if rc.Separator == "" {
		return ";"
	}
	return rc.Separator
}

func (rc *RunContext) logger() *slog.Logger {
	if rc.Logger == nil {
		return slog.Default()
	}
	return rc.Logger
}
