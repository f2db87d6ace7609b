package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"qgrover/internal/grover"
)

// JSONFile writes the trace as an indented JSON array of probabilities, the
// probs.json format the flicker animation reads. With Detailed set it writes
// the whole result instead.
type JSONFile struct {
	Path     string
	Detailed bool
}

func NewJSONFile(path string, detailed bool) *JSONFile {
	return &JSONFile{Path: path, Detailed: detailed}
}

func (j *JSONFile) Write(ctx context.Context, res *grover.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var v any = res.Trace()
	if j.Detailed {
		v = res
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(j.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	// Write next to the target and rename so readers never see a partial file.
	tmp := j.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, j.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (j *JSONFile) Close() error { return nil }

// ReadTrace loads a probs.json file written by JSONFile.
func ReadTrace(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var trace []float64
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return trace, nil
}
