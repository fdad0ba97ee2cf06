package event

import "time"

type EventType string

const (
	// Analysis lifecycle
	EventAnalysisCreated   EventType = "analysis.created"
	EventAnalysisStarted   EventType = "analysis.started"
	EventAnalysisCompleted EventType = "analysis.completed"
	EventAnalysisFailed    EventType = "analysis.failed"
)

// AnalysisEvent describes one lifecycle transition of a job. Fields that do
// not apply to a given transition stay zero (Score is only set on
// completion, Error only on failure).
type AnalysisEvent struct {
	AnalysisID string
	SourceName string
	Stage      string
	Progress   int
	Score      float64
	Error      string
}

type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   AnalysisEvent
}
