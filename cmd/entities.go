package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/densho/csujadconvert/contentdm"
	"github.com/densho/csujadconvert/ddrcsv"
	"github.com/densho/csujadconvert/entity"
	"github.com/densho/csujadconvert/report"
	"github.com/densho/csujadconvert/vocab"
)

var vocabDir string

var entitiesCmd = &cobra.Command{
	Use:   "entities COLLECTION_ID CSV_INPUT [OUTPUT_DIR]",
	Short: "Convert a CONTENTdm export to a DDR entity CSV",
	Long: `Convert a CONTENTdm CSV export to a DDR entity import CSV.

One entity row is written per top-level object. Rows without a Project ID
are parts of compound objects and are skipped. Subjects, facilities and
genres are mapped through the vocabulary tables in --vocab-dir.

OUTPUT_DIR defaults to the current directory. The output file is named
{COLLECTION_ID}-entities-{YYYYMMDD-HHMM}.csv.

Examples:
  csujadconvert entities ddr-csujad-1 ./raw/csujaddata.csv ./transformed
  csujadconvert entities ddr-csujad-2 export.csv --vocab-dir ./vocab -p csujad-nisei`,
	Args: argsBetween(2, 3),
	RunE: runEntities,
}

func init() {
	entitiesCmd.Flags().StringVar(&vocabDir, "vocab-dir", "data", "Directory holding the vocabulary tables")
}

func runEntities(cmd *cobra.Command, args []string) (err error) {
	collectionID, csvPath := args[0], args[1]
	outDir := "."
	if len(args) > 2 {
		outDir = args[2]
	}

	prof, err := loadProfile(0)
	if err != nil {
		return err
	}

	s, err := startSession(report.Entities, outDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	logger := s.logger

	tables, err := vocab.Load(prof.VocabularyPaths(vocabDir))
	if err != nil {
		return fmt.Errorf("loading vocabularies: %w", err)
	}
	records, err := contentdm.LoadFile(csvPath)
	if err != nil {
		return err
	}
	logger.Info("data loaded",
		"records", len(records),
		"topics", len(tables.Topics),
		"facilities", len(tables.Facilities),
		"genres", len(tables.Genres))

	w := ddrcsv.NewWriter(filepath.Join(outDir, ddrcsv.EntitiesName(collectionID, s.started)), entity.Columns)
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	summary := &report.Summary{
		Pipeline:     report.Entities,
		CollectionID: collectionID,
		Output:       w.Path(),
		Started:      s.started,
	}
	mapper := &entity.Mapper{
		CollectionID: collectionID,
		Vocab:        tables,
		Separator:    prof.MultiValueSeparator,
		SourceLabel:  prof.Source.Label,
		SiteName:     prof.Source.SiteName,
		Logger:       logger,
	}
	if err := mapper.Run(cmd.Context(), records, w, summary); err != nil {
		return err
	}

	return s.finish(cmd, summary)
}
