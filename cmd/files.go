package cmd

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/densho/csujadconvert/contentdm"
	"github.com/densho/csujadconvert/ddrcsv"
	"github.com/densho/csujadconvert/filematch"
	"github.com/densho/csujadconvert/report"
)

// Roles are the DDR file roles accepted by the files command.
var Roles = []string{"master", "mezzanine", "access", "transcript", "gloss", "preservation"}

var segments int

var filesCmd = &cobra.Command{
	Use:   "files COLLECTION_ID ROLE CSV_INPUT BINARY_DIR [OUTPUT_DIR]",
	Short: "Match binary files to a CONTENTdm export and write a DDR file CSV",
	Long: `Match the files in BINARY_DIR to the objects of a CONTENTdm CSV export and
write a DDR file import CSV.

File names are parsed into a Local ID and a sort position. A file belongs to
an object when the Local IDs are equal, or when the object's Local ID ends in
a numeric range ("ike_01_01_004-006") that contains the file's final segment.
Audio and video files are hashed and linked to their Internet Archive copies.

ROLE is one of: ` + strings.Join(Roles, ", ") + `.
OUTPUT_DIR defaults to the current directory. The output file is named
{COLLECTION_ID}-{ROLE}-files-{YYYYMMDD-HHMM}.csv.

Examples:
  csujadconvert files ddr-csujad-1 mezzanine ./raw/csujaddata.csv ./binaries ./transformed
  csujadconvert files ddr-csujad-2 master export.csv ./binaries --segments 3 --workers 8`,
	Args: filesArgs,
	RunE: runFiles,
}

func init() {
	filesCmd.Flags().IntVar(&segments, "segments", 0, "Segments in a Local ID (default: from profile)")
}

func filesArgs(cmd *cobra.Command, args []string) error {
	if err := argsBetween(4, 5)(cmd, args); err != nil {
		return err
	}
	if !slices.Contains(Roles, args[1]) {
		return usageErrorf("invalid role %q: must be one of %s", args[1], strings.Join(Roles, ", "))
	}
	return nil
}

func runFiles(cmd *cobra.Command, args []string) (err error) {
	collectionID, role, csvPath, binDir := args[0], args[1], args[2], args[3]
	outDir := "."
	if len(args) > 4 {
		outDir = args[4]
	}

	prof, err := loadProfile(segments)
	if err != nil {
		return err
	}

	s, err := startSession(report.Files, outDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	logger := s.logger

	records, err := contentdm.LoadFile(csvPath)
	if err != nil {
		return err
	}
	logger.Info("data loaded", "records", len(records))

	parser := filematch.NewParser(prof.LocalIDSegments, prof.ExternalExtensions)
	files, stats, err := filematch.Discover(cmd.Context(), binDir, parser, filematch.DiscoverOptions{
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	logger.Info("files discovered",
		"found", stats.Found,
		"usable", len(files),
		"invalid", stats.InvalidFilenames,
		"not_regular", stats.NotRegular,
		"hash_failures", stats.HashFailures)

	w := ddrcsv.NewWriter(filepath.Join(outDir, ddrcsv.FilesName(collectionID, role, s.started)), filematch.Columns)
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rc := &filematch.RunContext{
		CollectionID:    collectionID,
		Role:            role,
		ExternalURLBase: prof.ExternalURLBase,
		Separator:       prof.MultiValueSeparator,
		Workers:         workers,
		Sink:            w,
		Logger:          logger,
		Summary: report.Summary{
			Pipeline:         report.Files,
			CollectionID:     collectionID,
			Role:             role,
			Output:           w.Path(),
			Started:          s.started,
			FilesDiscovered:  stats.Found,
			InvalidFilenames: stats.InvalidFilenames,
			HashFailures:     stats.HashFailures,
		},
	}
	if err := rc.Run(cmd.Context(), records, files); err != nil {
		return err
	}

	return s.finish(cmd, &rc.Summary)
}
