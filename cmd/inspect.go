package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/densho/csujadconvert/filematch"
	"github.com/densho/csujadconvert/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect BINARY_DIR",
	Short: "Show how binary file names parse without writing output",
	Long: `Parse every file name in BINARY_DIR and print the Local ID, sort position and
naming rule for each. Nothing is written. Use this to check a delivery's file
names before running the files command.

Examples:
  csujadconvert inspect ./binaries
  csujadconvert inspect ./binaries --segments 3`,
	Args: argsBetween(1, 1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&segments, "segments", 0, "Segments in a Local ID (default: from profile)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	prof, err := loadProfile(segments)
	if err != nil {
		return err
	}

	parser := filematch.NewParser(prof.LocalIDSegments, prof.ExternalExtensions)
	files, stats, err := filematch.Discover(cmd.Context(), args[0], parser, filematch.DiscoverOptions{SkipHash: true})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		size := ""
		if info, err := os.Stat(f.Path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		external := ""
		if f.External {
			external = "yes"
		}
		rows = append(rows, []string{f.Name, f.LocalID, strconv.Itoa(f.Sort), f.Rule, external, size})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.RenderTable(
		[]string{"File", "Local ID", "Sort", "Rule", "External", "Size"},
		rows,
		[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignRight},
	))
	fmt.Fprintf(out, "%d files found. %d parsed. %d invalid file names. %d not regular files.\n",
		stats.Found, len(files), stats.InvalidFilenames, stats.NotRegular)
	return nil
}
