package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/cvlens/cvlens/internal/core/event"
	"github.com/rs/zerolog/log"
)

// Extractor converts a stored document into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Analyzer converts plain text into a feedback report. Implementations
// fill the feedback fields only; the runner attaches id, filename and
// timestamp before storing.
type Analyzer interface {
	Analyze(ctx context.Context, text, sourceName string) (*Report, error)
}

// Runner drives one job through the pipeline stages. A runner instance is
// shared between jobs, but each Run call is the sole writer for its job id.
type Runner struct {
	store     *Store
	extractor Extractor
	analyzer  Analyzer
	bus       event.Bus
	stepDelay time.Duration
}

func NewRunner(store *Store, extractor Extractor, analyzer Analyzer, bus event.Bus, stepDelay time.Duration) *Runner {
	return &Runner{
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		bus:       bus,
		stepDelay: stepDelay,
	}
}

// Run executes the pipeline for one job until Complete or Failed. It must
// be called on its own goroutine; any panic is recovered and recorded as a
// failure so one bad job cannot take the process down.
func (r *Runner) Run(ctx context.Context, id, path, sourceName string) {
	defer func() {
		if v := recover(); v != nil {
			log.Error().Str("analysis_id", id).Any("panic", v).Msg("analysis runner panicked")
			r.store.MarkFailed(id, fmt.Sprintf("internal error: %v", v))
		}
	}()

	r.bus.Publish(ctx, event.Event{
		Type: event.EventAnalysisStarted,
		Payload: event.AnalysisEvent{
			AnalysisID: id,
			SourceName: sourceName,
			Stage:      string(StageExtracting),
		},
	})

	if !r.advance(ctx, id, 25, 1, StageExtracting) {
		return
	}
	text, err := r.extractor.Extract(ctx, path)
	if err != nil {
		r.fail(ctx, id, sourceName, err)
		return
	}

	if !r.advance(ctx, id, 50, 2, StageAnalyzing) {
		return
	}
	report, err := r.analyzer.Analyze(ctx, text, sourceName)
	if err != nil {
		r.fail(ctx, id, sourceName, err)
		return
	}

	if !r.advance(ctx, id, 75, 3, StageGenerating) {
		return
	}
	report.AnalysisID = id
	report.Filename = sourceName
	report.AnalyzedAt = time.Now().UTC()
	r.store.UpdateProgress(id, 95, 4, StageGenerating)

	if err := r.store.StoreResult(id, report); err != nil {
		log.Warn().Err(err).Str("analysis_id", id).Msg("record vanished before completion")
		return
	}

	r.bus.Publish(ctx, event.Event{
		Type: event.EventAnalysisCompleted,
		Payload: event.AnalysisEvent{
			AnalysisID: id,
			SourceName: sourceName,
			Stage:      string(StageComplete),
			Progress:   100,
			Score:      report.OverallScore,
		},
	})
}

// advance records the stage transition and waits out the inter-stage delay.
// Stages are not interruptible mid-call, so shutdown is honored here,
// between stages; it marks the job Failed and stops the pipeline.
func (r *Runner) advance(ctx context.Context, id string, progress, step int, stage Stage) bool {
	r.store.UpdateProgress(id, progress, step, stage)

	if r.stepDelay > 0 {
		t := time.NewTimer(r.stepDelay)
		defer t.Stop()
		select {
		case <-t.C:
			return true
		case <-ctx.Done():
		}
	} else if ctx.Err() == nil {
		return true
	}

	r.store.MarkFailed(id, "analysis canceled")
	r.bus.Publish(ctx, event.Event{
		Type: event.EventAnalysisFailed,
		Payload: event.AnalysisEvent{
			AnalysisID: id,
			Stage:      string(StageFailed),
			Error:      "analysis canceled",
		},
	})
	return false
}

// fail records an extraction or analysis failure. The error is already
// typed and human-readable; it never propagates past the runner.
func (r *Runner) fail(ctx context.Context, id, sourceName string, err error) {
	r.store.MarkFailed(id, err.Error())
	r.bus.Publish(ctx, event.Event{
		Type: event.EventAnalysisFailed,
		Payload: event.AnalysisEvent{
			AnalysisID: id,
			SourceName: sourceName,
			Stage:      string(StageFailed),
			Error:      err.Error(),
		},
	})
}
