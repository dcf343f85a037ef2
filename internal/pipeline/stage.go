package pipeline

import (
	"context"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// Stage identifiers in execution order.
const (
	StageParse     = "parse"
	StageValidate  = "validate"
	StageAggregate = "aggregate"
	StageExport    = "export"
	StageReport    = "report"
)

// Stage is one sequential step of a pipeline run. A stage reads what earlier
// stages put into the State and adds its own results; it must not depend on
// anything a later stage produces.
type Stage interface {
	// ID returns the stable stage identifier used in manifests and spans.
	ID() string

	// Name returns a human-readable stage description.
	Name() string

	// Run executes the stage against the shared state.
	Run(ctx context.Context, state *State) error
}

// StageStatus is the lifecycle state of a stage within one run.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusRunning   StageStatus = "running"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// State carries data between stages of a single run. The pipeline is
// single-threaded, so State needs no synchronization.
type State struct {
	Config *config.Config

	// Scan is set by the parse stage.
	Scan *domain.ScanResult

	// Validation is set by the validate stage.
	Validation *domain.ValidationReport

	// Tables is set by the aggregate stage.
	Tables *domain.AggregateTables

	// Artifacts lists every file written during the run.
	Artifacts []string

	items map[string]int
}

// NewState creates the shared state for one run.
func NewState(cfg *config.Config) *State {
	return &State{
		Config: cfg,
		items:  make(map[string]int),
	}
}

// SetItems records how many items a stage processed; the count lands in the
// stage's manifest entry.
func (s *State) SetItems(stageID string, n int) {
	s.items[stageID] = n
}

// Items returns the item count recorded for a stage, zero if none.
func (s *State) Items(stageID string) int {
	return s.items[stageID]
}

// AddArtifact records the path of a file written during the run.
func (s *State) AddArtifact(path string) {
	s.Artifacts = append(s.Artifacts, path)
}
