package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

func CreateRunDir(baseDir string) (string, error) {
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir, err := filepath.Abs(filepath.Join(baseDir, "runs", stamp))
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(AnalysesDir(runDir), 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

func AnalysesDir(runDir string) string {
	return filepath.Join(runDir, "analyses")
}

func RecordPath(runDir, id string) string {
	return filepath.Join(AnalysesDir(runDir), id+".json")
}

func WriteRecord(runDir string, rec *Record) error {
	if err := os.MkdirAll(AnalysesDir(runDir), 0o755); err != nil {
		return fmt.Errorf("creating analyses dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(RecordPath(runDir, rec.ID), data, 0o644)
}

func ReadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}

// ReadRun loads every record in runDir, oldest first.
func ReadRun(runDir string) ([]*Record, error) {
	entries, err := os.ReadDir(AnalysesDir(runDir))
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", runDir, err)
	}
	var recs []*Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		rec, err := ReadRecord(filepath.Join(AnalysesDir(runDir), e.Name()))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID < recs[j].ID
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	return recs, nil
}
