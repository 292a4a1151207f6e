package report

import (
	"fmt"
	"os"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Manifest returns the summary as a JSON object.
func (s *Summary) Manifest() ([]byte, error) {
	counts := make(map[string]any)
	for _, c := range s.Counts() {
		counts[key(c.Label)] = c.Value
	}

	fields := map[string]any{
		"pipeline":      s.Pipeline,
		"run_id":        s.RunID,
		"collection_id": s.CollectionID,
		"output":        s.Output,
		"counts":        counts,
	}
	if s.Role != "" {
		fields["role"] = s.Role
	}
	if !s.Started.IsZero() {
		fields["started"] = s.Started.UTC().Format(time.RFC3339)
	}
	if !s.Finished.IsZero() {
		fields["finished"] = s.Finished.UTC().Format(time.RFC3339)
	}

	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("building manifest: %w", err)
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}

// WriteManifest writes the JSON manifest to path.
func (s *Summary) WriteManifest(path string) error {
	data, err := s.Manifest()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// key turns a count label into a snake_case manifest key.
func key(label string) string {
	b := make([]byte, 0, len(label))
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c == ' ':
			b = append(b, '_')
		case 'A' <= c && c <= 'Z':
			b = append(b, c+'a'-'A')
		default:
			b = append(b, c)
		}
	}
	return string(b)
}
