package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunStatus is the overall outcome of one pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StageRecord is one stage's entry in the run manifest.
type StageRecord struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Duration  string      `json:"duration"`
	Items     int         `json:"items,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// RunManifest records a single pipeline run: identity, input, per-stage
// outcomes and the artifacts written. Manifests live under the logs
// directory because they carry timestamps; nothing under the output
// directory does.
type RunManifest struct {
	RunID     string     `json:"run_id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Input     string `json:"input,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`

	Stages    []StageRecord `json:"stages"`
	Artifacts []string      `json:"artifacts,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// NewRunManifest starts a manifest for a run that is about to execute.
func NewRunManifest(runID, input, outputDir string) *RunManifest {
	return &RunManifest{
		RunID:     runID,
		Status:    RunStatusRunning,
		StartTime: time.Now(),
		Input:     input,
		OutputDir: outputDir,
		Stages:    make([]StageRecord, 0, 5),
	}
}

// RecordStage appends one stage outcome.
func (m *RunManifest) RecordStage(rec StageRecord) {
	m.Stages = append(m.Stages, rec)
}

// Complete marks the run as finished successfully.
func (m *RunManifest) Complete() {
	now := time.Now()
	m.EndTime = &now
	m.Status = RunStatusCompleted
}

// Fail marks the run as failed and records the error.
func (m *RunManifest) Fail(err error) {
	now := time.Now()
	m.EndTime = &now
	m.Status = RunStatusFailed
	if err != nil {
		m.Error = err.Error()
	}
}

// Duration returns the wall time of the run, zero while still running.
func (m *RunManifest) Duration() time.Duration {
	if m.EndTime == nil {
		return 0
	}
	return m.EndTime.Sub(m.StartTime)
}

// Save writes the manifest as indented JSON, creating the directory if
// needed. Each run overwrites the previous manifest at the same path.
func (m *RunManifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a previously saved manifest.
func LoadManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run manifest: %w", err)
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse run manifest %s: %w", path, err)
	}
	return &m, nil
}
