// Package cmd provides CLI commands for csujadconvert.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	profileName  string
	profileFile  string
	logDir       string
	workers      int
	manifestPath string
)

func logLevel() slog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger() {
	opts := &slog.HandlerOptions{
		Level: logLevel(),
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "csujadconvert",
	Short: "Convert CSUJAD CONTENTdm exports to DDR import CSVs",
	Long: `csujadconvert converts a CONTENTdm CSV export from the CSU Japanese American
Digitization project into DDR import CSV files.

The entities command writes one entity row per top-level object. The files
command matches a directory of binary files to the export's Local IDs and
writes one file row per match.

Examples:
  csujadconvert entities ddr-csujad-1 ./raw/csujaddata.csv ./transformed
  csujadconvert files ddr-csujad-1 mezzanine ./raw/csujaddata.csv ./binaries ./transformed
  csujadconvert inspect ./binaries
  LOG_LEVEL=DEBUG csujadconvert files ddr-csujad-1 master data.csv ./binaries`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// UsageError reports invalid command line arguments.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// argsBetween is cobra.RangeArgs returning a UsageError.
func argsBetween(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			if lo == hi {
				return usageErrorf("%s takes %d arguments, got %d", cmd.Name(), lo, len(args))
			}
			return usageErrorf("%s takes %d to %d arguments, got %d", cmd.Name(), lo, hi, len(args))
		}
		return nil
	}
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprint(os.Stderr, cmd.UsageString())
		}
		os.Exit(1)
	}
}

func init() {
	// A missing .env is fine.
	_ = godotenv.Load()
	setupLogger()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&profileName, "profile", "p", "", "Collection profile name (default: csujad)")
	flags.StringVar(&profileFile, "profile-file", "", "Custom profile YAML file")
	flags.StringVar(&logDir, "log-dir", "logs", "Directory for run log files (empty disables)")
	flags.IntVar(&workers, "workers", runtime.NumCPU(), "Files hashed and records matched in parallel")
	flags.StringVar(&manifestPath, "manifest", "", "Write a JSON run manifest to this path")

	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(profilesCmd)
}
