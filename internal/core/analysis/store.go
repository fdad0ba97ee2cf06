package analysis

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrDuplicateID = errors.New("analysis id already exists")
	ErrNotFound    = errors.New("analysis not found")
	ErrNotReady    = errors.New("analysis not yet complete")
	ErrNoResult    = errors.New("analysis result unavailable")
)

// Store holds every job record in memory for the life of the process.
// State is lost on restart; that is an accepted limitation, not a bug.
// Records are never evicted here; uploaded files have their own retention
// sweep, which does not touch this store.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create inserts a new record in the Queued stage.
func (s *Store) Create(id, sourceName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; ok {
		return ErrDuplicateID
	}
	s.jobs[id] = &Job{
		ID:         id,
		SourceName: sourceName,
		Stage:      StageQueued,
		Progress:   0,
		Step:       1,
		CreatedAt:  time.Now().UTC(),
	}
	return nil
}

// UpdateProgress overwrites progress, step and stage in one critical
// section. An absent id is a silent no-op so a runner racing an
// out-of-band eviction cannot crash. Terminal records are immutable;
// no transition leaves Complete or Failed.
func (s *Store) UpdateProgress(id string, progress, step int, stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Stage.IsTerminal() {
		return
	}
	j.Progress = progress
	j.Step = step
	j.Stage = stage
}

// StoreResult attaches the finished report and moves the job to Complete.
func (s *Store) StoreResult(id string, result *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	j.Result = result.clone()
	j.Stage = StageComplete
	j.Progress = 100
	j.Step = 4
	return nil
}

// MarkFailed moves the job to Failed. Idempotent; the last message wins.
// A Complete record is immune: a job holds a result or an error message,
// never both, so a late failure cannot demote a finished analysis.
func (s *Store) MarkFailed(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Stage == StageComplete {
		return
	}
	j.Stage = StageFailed
	j.ErrorMessage = message
}

// Get returns a snapshot of the record. Callers never hold a reference
// into the store, so a concurrent update cannot be observed mid-write.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j.clone(), nil
}

// Count returns the number of records currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
