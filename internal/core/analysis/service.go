package analysis

import (
	"context"

	"github.com/cvlens/cvlens/internal/core/event"
	"github.com/google/uuid"
)

// Service is the submission and query surface over the store and runner.
type Service struct {
	// baseCtx detaches job execution from the submitting request; it is
	// the server's lifetime context, so runners stop on shutdown.
	baseCtx context.Context
	store   *Store
	runner  *Runner
	bus     event.Bus
}

func NewService(baseCtx context.Context, store *Store, runner *Runner, bus event.Bus) *Service {
	return &Service{
		baseCtx: baseCtx,
		store:   store,
		runner:  runner,
		bus:     bus,
	}
}

// Submit creates a job record for an already-persisted document and
// launches its runner. It returns the new job id immediately, before any
// pipeline stage executes.
func (s *Service) Submit(sourceName, path string) (string, error) {
	id := uuid.NewString()
	if err := s.store.Create(id, sourceName); err != nil {
		return "", err
	}

	s.bus.Publish(s.baseCtx, event.Event{
		Type: event.EventAnalysisCreated,
		Payload: event.AnalysisEvent{
			AnalysisID: id,
			SourceName: sourceName,
			Stage:      string(StageQueued),
		},
	})

	go s.runner.Run(s.baseCtx, id, path, sourceName)

	return id, nil
}

// Status returns a snapshot of the job record.
func (s *Service) Status(id string) (*Job, error) {
	return s.store.Get(id)
}

// Result returns the finished report, ErrNotReady before completion, or
// ErrNoResult if a Complete record somehow lacks one.
func (s *Service) Result(id string) (*Report, error) {
	j, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if j.Stage != StageComplete {
		return nil, ErrNotReady
	}
	if j.Result == nil {
		return nil, ErrNoResult
	}
	return j.Result, nil
}
