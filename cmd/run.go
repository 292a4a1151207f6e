package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/densho/csujadconvert/ddrcsv"
	"github.com/densho/csujadconvert/profile"
	"github.com/densho/csujadconvert/report"
	"github.com/densho/csujadconvert/runlog"
)

// loadProfile resolves --profile-file or --profile and applies segments when
// positive.
func loadProfile(segments int) (*profile.Profile, error) {
	var p *profile.Profile
	if profileFile != "" {
		loaded, err := profile.LoadFile(profileFile)
		if err != nil {
			return nil, fmt.Errorf("loading profile file: %w", err)
		}
		p = loaded
	} else {
		registry, err := loadRegistry()
		if err != nil {
			return nil, err
		}

		name := profileName
		if name == "" {
			name = profile.DefaultName
		}
		registered, ok := registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown profile: %s", name)
		}
		copied := *registered
		p = &copied
	}

	if segments > 0 {
		p.LocalIDSegments = segments
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// session is the shared state of an entities or files run.
type session struct {
	run     *runlog.Run
	logger  *slog.Logger
	unlock  func() error
	started time.Time
}

func startSession(pipeline, outDir string) (*session, error) {
	run, err := runlog.Open(slog.Default(), runlog.Options{
		Dir:      logDir,
		Pipeline: pipeline,
		Level:    logLevel(),
	})
	if err != nil {
		return nil, err
	}

	unlock, err := ddrcsv.Lock(outDir)
	if err != nil {
		_ = run.Close()
		return nil, err
	}

	s := &session{
		run:     run,
		logger:  run.Logger,
		unlock:  unlock,
		started: time.Now(),
	}
	s.logger.Info("begin run", "pipeline", pipeline, "log", run.Path)
	return s, nil
}

// finish stamps the summary, prints it and writes the manifest if requested.
func (s *session) finish(cmd *cobra.Command, summary *report.Summary) error {
	summary.RunID = s.run.ID
	summary.Finished = time.Now()

	s.logger.Info("run ended",
		"rows", summary.RowsProcessed,
		"written", summary.RowsWritten,
		"parts", summary.PartsSkipped,
		"elapsed", summary.Finished.Sub(summary.Started).Round(time.Millisecond))
	s.logger.Info(summary.Line())
	summary.Print(cmd.OutOrStdout())

	if manifestPath != "" {
		if err := summary.WriteManifest(manifestPath); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) close() error {
	err := s.unlock()
	if cerr := s.run.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
