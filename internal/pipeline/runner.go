package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
)

// Runner executes stages sequentially under the output directory lock and
// records every outcome in a run manifest.
type Runner struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRunner creates a runner. A nil logger falls back to slog.Default; a nil
// tracer falls back to the global tracer, which is a no-op unless tracing
// was initialized.
func NewRunner(logger *slog.Logger, tracer trace.Tracer) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.TracerName)
	}
	return &Runner{logger: logger, tracer: tracer}
}

// Run executes the stages in order against a fresh State. The first stage
// error stops the run; later stages are not attempted. The manifest is
// written whether the run completes or fails. A second run against the same
// output directory is rejected while the lock is held.
func (r *Runner) Run(ctx context.Context, cfg *config.Config, stages []Stage) (*RunManifest, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigError("no configuration for pipeline run", nil)
	}
	if len(stages) == 0 {
		return nil, apperrors.NewConfigError("no stages to run", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to prepare directories", err)
	}

	lock := flock.New(cfg.LockFilePath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to acquire output directory lock", err)
	}
	if !locked {
		return nil, apperrors.NewStorageError("another run holds the output directory lock: "+cfg.LockFilePath(), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("Failed to release output directory lock",
				slog.String("path", cfg.LockFilePath()),
				slog.String("error", err.Error()))
		}
	}()

	runID := uuid.NewString()
	manifest := NewRunManifest(runID, cfg.Input.ScanFile, cfg.Paths.OutputDir)
	state := NewState(cfg)

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.input", cfg.Input.ScanFile),
			attribute.Int("run.stages", len(stages)),
		))
	defer span.End()

	r.logger.InfoContext(ctx, "Pipeline run started",
		slog.String("run_id", runID),
		slog.String("input", cfg.Input.ScanFile),
		slog.Int("stages", len(stages)))

	var runErr error
	for _, stage := range stages {
		if runErr = r.runStage(ctx, stage, state, manifest); runErr != nil {
			break
		}
	}

	manifest.Artifacts = state.Artifacts
	if runErr != nil {
		manifest.Fail(runErr)
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "pipeline run failed")
	} else {
		manifest.Complete()
		span.SetStatus(codes.Ok, "pipeline run completed")
	}

	if err := manifest.Save(cfg.ManifestPath()); err != nil {
		r.logger.ErrorContext(ctx, "Failed to write run manifest",
			slog.String("path", cfg.ManifestPath()),
			slog.String("error", err.Error()))
		if runErr == nil {
			runErr = err
		}
	}

	r.logger.InfoContext(ctx, "Pipeline run finished",
		slog.String("run_id", runID),
		slog.String("status", string(manifest.Status)),
		slog.Int("stages_run", len(manifest.Stages)),
		slog.Int("artifacts", len(state.Artifacts)),
		slog.Duration("duration", manifest.Duration()))
	return manifest, runErr
}

// runStage executes one stage inside its own span and appends its manifest
// record.
func (r *Runner) runStage(ctx context.Context, stage Stage, state *State, manifest *RunManifest) error {
	rec := StageRecord{
		ID:        stage.ID(),
		Name:      stage.Name(),
		Status:    StageStatusRunning,
		StartTime: time.Now(),
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.stage."+stage.ID(),
		trace.WithAttributes(attribute.String("stage.id", stage.ID())))
	defer span.End()

	r.logger.InfoContext(ctx, "Stage started",
		slog.String("stage", stage.ID()))

	err := stage.Run(ctx, state)

	rec.EndTime = time.Now()
	rec.Duration = rec.EndTime.Sub(rec.StartTime).String()
	rec.Items = state.Items(stage.ID())
	if err != nil {
		rec.Status = StageStatusFailed
		rec.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "stage failed")
		r.logger.ErrorContext(ctx, "Stage failed",
			slog.String("stage", stage.ID()),
			slog.String("error", err.Error()))
	} else {
		rec.Status = StageStatusCompleted
		span.SetAttributes(attribute.Int("stage.items", rec.Items))
		span.SetStatus(codes.Ok, "stage completed")
		r.logger.InfoContext(ctx, "Stage completed",
			slog.String("stage", stage.ID()),
			slog.String("duration", rec.Duration),
			slog.Int("items", rec.Items))
	}

	manifest.RecordStage(rec)
	return err
}
